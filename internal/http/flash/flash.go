// Package flash implements one-shot messages carried to the next rendered
// page in a short-lived cookie.
//
// A handler calls Add before redirecting (or before rendering directly);
// the page that renders next calls Pop, which returns every pending message
// and clears the cookie. Messages added and popped within the same request
// never reach the client.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CookieName is the name of the flash cookie.
const CookieName = "recettes_flash"

// Message kinds, used as CSS classes by the templates.
const (
	Success = "success"
	Error   = "error"
	Info    = "info"
)

// maxMessages bounds the cookie size.
const maxMessages = 8

const ctxKey = "flash.pending"

// Message is one flash entry.
type Message struct {
	Kind string `json:"k"`
	Text string `json:"t"`
}

// Add queues a message for the next page.
func Add(c *gin.Context, kind, text string) {
	msgs := append(pending(c), Message{Kind: kind, Text: text})
	if len(msgs) > maxMessages {
		msgs = msgs[len(msgs)-maxMessages:]
	}
	c.Set(ctxKey, msgs)
	writeCookie(c, msgs)
}

// Pop returns the messages queued by earlier requests and by this one, and
// clears them.
func Pop(c *gin.Context) []Message {
	var out []Message
	if ck, err := c.Request.Cookie(CookieName); err == nil {
		out = append(out, decode(ck.Value)...)
	}
	out = append(out, pending(c)...)
	c.Set(ctxKey, []Message(nil))
	if len(out) > 0 {
		writeCookie(c, nil)
	}
	return out
}

func pending(c *gin.Context) []Message {
	if v, ok := c.Get(ctxKey); ok {
		if msgs, ok := v.([]Message); ok {
			return msgs
		}
	}
	return nil
}

// writeCookie replaces any flash Set-Cookie header already written in this
// response; an empty list expires the cookie.
func writeCookie(c *gin.Context, msgs []Message) {
	h := c.Writer.Header()
	var kept []string
	for _, v := range h.Values("Set-Cookie") {
		if !strings.HasPrefix(v, CookieName+"=") {
			kept = append(kept, v)
		}
	}
	h.Del("Set-Cookie")
	for _, v := range kept {
		h.Add("Set-Cookie", v)
	}

	ck := &http.Cookie{
		Name:     CookieName,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if len(msgs) == 0 {
		ck.MaxAge = -1
	} else {
		ck.Value = encode(msgs)
	}
	http.SetCookie(c.Writer, ck)
}

func encode(msgs []Message) string {
	b, _ := json.Marshal(msgs)
	return base64.RawURLEncoding.EncodeToString(b)
}

func decode(v string) []Message {
	b, err := base64.RawURLEncoding.DecodeString(v)
	if err != nil {
		return nil
	}
	var msgs []Message
	if err := json.Unmarshal(b, &msgs); err != nil {
		return nil
	}
	return msgs
}
