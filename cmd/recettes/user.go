package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/tbourn/recettes/internal/auth"
	"github.com/tbourn/recettes/internal/services"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage accounts",
}

var userAddFlags struct {
	login, email, surname, firstName, password string
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer closeDB(db)

		users := services.NewUserService(db, auth.NewHasher(cfg.BcryptCost))
		u, err := users.Create(cmd.Context(), services.UserInput{
			Login:     userAddFlags.login,
			Email:     userAddFlags.email,
			Surname:   userAddFlags.surname,
			FirstName: userAddFlags.firstName,
			Password:  userAddFlags.password,
		})
		var ve *services.ValidationError
		if errors.As(err, &ve) {
			return errors.New(strings.Join(ve.Messages, "; "))
		}
		if err != nil {
			return errors.Wrap(err, "create user")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %d created (%s)\n", u.ID, u.Login)
		return nil
	},
}

func init() {
	f := userAddCmd.Flags()
	f.StringVar(&userAddFlags.login, "login", "", "login")
	f.StringVar(&userAddFlags.email, "email", "", "email address")
	f.StringVar(&userAddFlags.surname, "nom", "", "surname")
	f.StringVar(&userAddFlags.firstName, "prenom", "", "first name")
	f.StringVar(&userAddFlags.password, "password", "", "password")

	userCmd.AddCommand(userAddCmd)
}
