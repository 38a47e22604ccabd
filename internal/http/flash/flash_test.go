package flash

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAddThenPopAcrossRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/save", func(c *gin.Context) {
		Add(c, Success, "Enregistrement effectué.")
		Add(c, Info, "deux")
		c.Redirect(http.StatusFound, "/")
	})
	var got []Message
	r.GET("/", func(c *gin.Context) {
		got = Pop(c)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/save", nil))
	cookies := w.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("expected exactly one flash cookie, got %v", w.Header().Values("Set-Cookie"))
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if len(got) != 2 || got[0].Text != "Enregistrement effectué." || got[1].Kind != Info {
		t.Fatalf("unexpected messages: %+v", got)
	}
	if sc := w.Header().Get("Set-Cookie"); !strings.Contains(sc, "Max-Age=0") {
		t.Fatalf("expected flash cookie to be cleared, got %q", sc)
	}
}

func TestPopSameRequestWritesNoCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var got []Message
	r.GET("/form", func(c *gin.Context) {
		c.SetCookie("other", "x", 60, "/", "", false, true)
		Add(c, Error, "Les erreurs suivantes ont été rencontrées : a")
		got = Pop(c)
		c.Status(http.StatusUnprocessableEntity)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))

	if len(got) != 1 || got[0].Kind != Error {
		t.Fatalf("unexpected messages: %+v", got)
	}
	var other, fl int
	for _, v := range w.Header().Values("Set-Cookie") {
		switch {
		case strings.HasPrefix(v, "other="):
			other++
		case strings.HasPrefix(v, CookieName+"="):
			fl++
			if !strings.Contains(v, "Max-Age=0") {
				t.Fatalf("flash cookie should be an expiry, got %q", v)
			}
		}
	}
	if other != 1 || fl != 1 {
		t.Fatalf("Set-Cookie headers = %v", w.Header().Values("Set-Cookie"))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	if decode("!!!") != nil || decode("") != nil {
		t.Fatalf("garbage should decode to nil")
	}
	msgs := []Message{{Kind: Info, Text: "é"}}
	if got := decode(encode(msgs)); len(got) != 1 || got[0] != msgs[0] {
		t.Fatalf("round trip failed: %+v", got)
	}
}

func TestAddCapsMessages(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for i := 0; i < maxMessages+3; i++ {
		Add(c, Info, "m")
	}
	if n := len(pending(c)); n != maxMessages {
		t.Fatalf("pending = %d; want %d", n, maxMessages)
	}
}
