package emailaddr

import "strings"

// domainTypos maps frequently mistyped mail domains to their intended form.
var domainTypos = map[string]string{
	"gmail.co":     "gmail.com",
	"gmail.cm":     "gmail.com",
	"gmail.con":    "gmail.com",
	"gmai.com":     "gmail.com",
	"gamil.com":    "gmail.com",
	"gmial.com":    "gmail.com",
	"gmaill.com":   "gmail.com",
	"hotmail.co":   "hotmail.com",
	"hotmail.con":  "hotmail.com",
	"hotmial.com":  "hotmail.com",
	"hotmal.com":   "hotmail.com",
	"outlook.co":   "outlook.com",
	"outlok.com":   "outlook.com",
	"yahoo.co":     "yahoo.com",
	"yaho.com":     "yahoo.com",
	"yahooo.com":   "yahoo.com",
	"icloud.co":    "icloud.com",
	"icoud.com":    "icloud.com",
	"orange.f":     "orange.fr",
	"ornage.fr":    "orange.fr",
	"wanadoo.f":    "wanadoo.fr",
	"laposte.ne":   "laposte.net",
	"laposte.net.": "laposte.net",
	"free.f":       "free.fr",
	"sfr.f":        "sfr.fr",
}

// Suggest returns a corrected address when the domain looks like a typo of
// a well-known mail provider, or "" when no suggestion applies. The input
// is expected to contain an @; anything else yields no suggestion.
func Suggest(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}

	domain := strings.ToLower(email[at+1:])
	fixed, ok := domainTypos[domain]
	if !ok {
		return ""
	}

	return email[:at+1] + fixed
}
