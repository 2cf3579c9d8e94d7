// Package view builds the HTML template set and the formatting helpers the
// templates use.
package view

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crm-service/web"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// New parses the embedded template set with formatting funcs bound to the
// display timezone.
func New(loc *time.Location) (*template.Template, error) {
	return template.New("").
		Funcs(FuncMap(loc)).
		ParseFS(web.Templates, "templates/*.tmpl", "templates/*/*.tmpl")
}

// Must is New for wiring paths where a broken template set is fatal.
func Must(loc *time.Location) *template.Template {
	t, err := New(loc)
	if err != nil {
		panic(err)
	}
	return t
}

func FuncMap(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"currency": Currency,
		"datetime": func(t time.Time) string { return t.In(loc).Format("02.01.2006 15:04") },
		"date":     func(t time.Time) string { return t.In(loc).Format("02.01.2006") },
		"reltime":  func(t time.Time) string { return RelTime(t, time.Now()) },
		"until": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i
			}
			return out
		},
	}
}

// Currency formats an amount as EUR with continental separators,
// e.g. 1234.5 -> "€ 1.234,50".
func Currency(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i := 0; i < len(intPart); i++ {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(intPart[i])
	}
	return "€ " + sign + b.String() + "," + fracPart
}

// RelTime renders how long ago t was, compressed to the largest unit,
// e.g. "15min", "3h", "2d".
func RelTime(t, now time.Time) string {
	seconds := int(now.Sub(t).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	switch {
	case seconds < 60:
		return strconv.Itoa(seconds) + "s"
	case seconds < 3600:
		return strconv.Itoa(seconds/60) + "min"
	case seconds < 86400:
		return strconv.Itoa(seconds/3600) + "h"
	case seconds < 604800:
		return strconv.Itoa(seconds/86400) + "d"
	case seconds < 2592000:
		return strconv.Itoa(seconds/604800) + "w"
	case seconds < 31536000:
		return strconv.Itoa(seconds/2592000) + "mo"
	default:
		return strconv.Itoa(seconds/31536000) + "y"
	}
}

// HTML renders a named page template.
func HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	c.HTML(status, name, data)
}

// NotFound renders the dedicated 404 page.
func NotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "error/404", gin.H{})
}

// ServerError renders the dedicated 500 page.
func ServerError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "error/500", gin.H{})
}
