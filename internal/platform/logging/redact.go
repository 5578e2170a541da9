package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// credentialFields are attribute names masked wherever they appear. The list
// covers the gateway headers the HTTP layer logs and the names that show up
// in upstream error bodies.
var credentialFields = []string{
	"authorization", "Authorization",
	"x-api-key", "X-Api-Key", "apiKey", "api_key",
	"token", "tokens", "accessToken", "access_token", "refreshToken", "refresh_token",
	"password", "secret", "credential", "credentials",
	"cookie", "Cookie", "session",
}

// credentialPrefixes mask any attribute whose name starts with them.
var credentialPrefixes = []string{"secret", "private"}

// credentialValues match header-shaped values regardless of the field name.
var credentialValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
	regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`),
}

func redactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(credentialFields)+len(credentialPrefixes)+len(credentialValues))

	for _, name := range credentialFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, prefix := range credentialPrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}

	for _, re := range credentialValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return opts
}

// NewReplaceAttr returns a slog ReplaceAttr hook masking credentials, plus
// whatever extra masq options the caller passes.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(redactOptions(), extra...)...)
}
