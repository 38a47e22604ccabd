package views

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func TestParse_AllPagesRender(t *testing.T) {
	tpl, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	pages := []string{
		"accueil.html", "plat.html", "plat_info.html", "recherche_plat.html",
		"recherche_plat_type.html", "ajout_recette.html", "edition_recette.html",
		"adding_ingredients.html", "suppression.html", "ingredient.html",
		"ingredient_info.html", "recherche_ingredient.html",
		"recherche_ingredient_type.html", "ajout_ingredient.html",
		"inscription.html", "connexion.html", "404.html", "erreur.html",
	}
	for _, name := range pages {
		if tpl.Lookup(name) == nil {
			t.Fatalf("template %s not found", name)
		}
		var buf bytes.Buffer
		data := map[string]any{
			"Title":      "T",
			"Flashes":    []struct{ Kind, Text string }{{"info", "bonjour"}},
			"Dish":       fakeDish{ID: 3, Name: "Tarte", Category: "Dessert", Guests: 6, RecipeLink: "http://x/tarte"},
			"Ingredient": fakeDish{ID: 1, Name: "Pomme", Category: "Fruit"},
			"Form":       fakeForm{Categories: []string{"Dessert", "Autre"}, Category: "Autre"},
			"Rows":       2,
		}
		if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
			t.Fatalf("execute %s: %v", name, err)
		}
		out := buf.String()
		if !strings.Contains(out, "<!DOCTYPE html>") || !strings.Contains(out, "</html>") {
			t.Fatalf("%s is not a full page:\n%s", name, out)
		}
		if !strings.Contains(out, `class="flash info">bonjour`) {
			t.Fatalf("%s does not show flashes", name)
		}
	}
}

type fakeDish struct {
	ID         uint
	Name       string
	Category   string
	Guests     int
	RecipeLink string
}

type fakeForm struct {
	Name, RecipeLink, Category       string
	Guests                           int
	Categories                       []string
	Login, Surname, FirstName, Email string
}

func TestPagination_Partial(t *testing.T) {
	tpl := MustParse()
	p := NewPager("/recherche_plat", url.Values{"keyword": {"tarte"}}, 2, true, true, []int{1, 2, 3, 0, 9})
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "pagination", p); err != nil {
		t.Fatalf("execute: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`href="/recherche_plat?keyword=tarte&amp;page=1"`,
		`<strong>2</strong>`,
		`href="/recherche_plat?keyword=tarte&amp;page=3"`,
		`…`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("pagination missing %q:\n%s", want, out)
		}
	}
}

func TestNewPager(t *testing.T) {
	params := url.Values{"keyword": {"4"}}
	p := NewPager("/recherche_plat_convives", params, 1, false, true, []int{1, 2})
	if p.Prev != "" {
		t.Fatalf("first page has no prev, got %q", p.Prev)
	}
	if p.Next != "/recherche_plat_convives?keyword=4&page=2" {
		t.Fatalf("next = %q", p.Next)
	}
	if len(p.Links) != 2 || !p.Links[0].Current || p.Links[1].Current {
		t.Fatalf("links = %+v", p.Links)
	}
	if params.Get("page") != "" {
		t.Fatalf("caller params must not be modified")
	}
}

func TestStatic_ServesStylesheet(t *testing.T) {
	f, err := Static().Open("style.css")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	if _, err := Static().Open("missing.css"); err == nil {
		t.Fatalf("expected error for missing asset")
	}
	var _ http.FileSystem = Static()
}
