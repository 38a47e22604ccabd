package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/recettes/internal/http/flash"
	"github.com/tbourn/recettes/internal/http/middleware"
	"github.com/tbourn/recettes/internal/services"
)

const (
	msgRegistered     = "Enregistrement effectué. Identifiez-vous maintenant"
	msgAlreadyLogged  = "Vous êtes déjà connecté(e)"
	msgLoggedIn       = "Connexion effectuée"
	msgBadCredentials = "Les identifiants n'ont pas été reconnus"
	msgLoggedOut      = "Vous êtes déconnecté(e)"
)

type registerForm struct {
	Login     string
	Surname   string
	FirstName string
	Email     string
}

// RegisterForm renders the sign-up form.
func (h *Handlers) RegisterForm(c *gin.Context) {
	render(c, http.StatusOK, "inscription.html", gin.H{"Title": "Inscription", "Form": registerForm{}})
}

// Register creates an account from the posted fields login, nom, prenom,
// email and motdepasse.
func (h *Handlers) Register(c *gin.Context) {
	in := services.UserInput{
		Login:     c.PostForm("login"),
		Email:     c.PostForm("email"),
		Surname:   c.PostForm("nom"),
		FirstName: c.PostForm("prenom"),
		Password:  c.PostForm("motdepasse"),
	}
	_, err := h.users.Create(c.Request.Context(), in)
	if err == nil {
		flash.Add(c, flash.Success, msgRegistered)
		redirect(c, "/")
		return
	}

	var ve *services.ValidationError
	if !errors.As(err, &ve) {
		serverError(c, err)
		return
	}
	flashErrors(c, err)
	render(c, http.StatusUnprocessableEntity, "inscription.html", gin.H{
		"Title": "Inscription",
		"Form":  registerForm{Login: in.Login, Surname: in.Surname, FirstName: in.FirstName, Email: in.Email},
	})
}

// Login shows the login form on GET and opens a session on POST.
func (h *Handlers) Login(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		flash.Add(c, flash.Info, msgAlreadyLogged)
		redirect(c, "/")
		return
	}
	if c.Request.Method != http.MethodPost {
		render(c, http.StatusOK, "connexion.html", gin.H{"Title": "Connexion"})
		return
	}

	login := c.PostForm("login")
	u, err := h.users.Identify(c.Request.Context(), login, c.PostForm("motdepasse"))
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		middleware.LoggerFrom(c).Info().Msg("login rejected")
		flash.Add(c, flash.Error, msgBadCredentials)
		render(c, http.StatusUnauthorized, "connexion.html", gin.H{"Title": "Connexion", "Login": login})
		return
	case err != nil:
		serverError(c, err)
		return
	}

	if err := h.sessions.Login(c.Writer, u.ID); err != nil {
		serverError(c, err)
		return
	}
	middleware.LoggerFrom(c).Info().Uint("user_id", u.ID).Msg("login")
	flash.Add(c, flash.Success, msgLoggedIn)
	redirect(c, "/")
}

// Logout closes the session.
func (h *Handlers) Logout(c *gin.Context) {
	h.sessions.Logout(c.Writer)
	flash.Add(c, flash.Info, msgLoggedOut)
	redirect(c, "/")
}
