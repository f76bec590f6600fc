// internal/middleware/i18n.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

var supportedLanguages = []language.Tag{
	language.English, // first entry is the matcher's fallback
	language.Russian,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// I18nMiddleware stores the best supported language from Accept-Language
// under "lang". Requests without the header get defaultLang.
func I18nMiddleware(defaultLang string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := defaultLang
		if header := c.GetHeader("Accept-Language"); header != "" {
			lang = matchLanguage(header)
		}

		c.Set("lang", lang)
		c.Next()
	}
}

func matchLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, index, _ := languageMatcher.Match(tags...)
	base, _ := supportedLanguages[index].Base()
	return base.String()
}
