package module

import (
	"querygate/internal/platform/config"
	"querygate/internal/services/auth/domain"
)

// Options controls the auth policy and its credential store
type Options struct {
	UserName     string
	Password     string
	PasswordHash string // argon2id PHC string; wins over Password when set

	Tokens domain.TokenConfig
	Policy domain.PolicyConfig
}

// FromConfig reads with AUTH_ prefix; USERNAME and JWT_BASE64_SECRET are required
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("AUTH_")
	jwt := c.Prefix("JWT_")
	return Options{
		UserName:     c.MustString("USERNAME"),
		Password:     c.MayString("PASSWORD", ""),
		PasswordHash: c.MayString("PASSWORD_HASH", ""),
		Tokens: domain.TokenConfig{
			Issuer:    jwt.MayString("NAME", "querygate"),
			Audience:  jwt.MayString("CLIENT_ID", "querygate-ui"),
			Secret:    jwt.MustBase64("BASE64_SECRET"),
			TTLMillis: jwt.MayInt64("EXPIRES_MILLIS", 30*60*1000),
		},
		Policy: domain.PolicyConfig{
			Markers: domain.Markers{
				Header:     c.MayString("MARKER_HEADER", domain.DefaultMarkerHeader),
				CheckValue: c.MayString("CHECK_VALUE", domain.DefaultCheckValue),
				LoginValue: c.MayString("LOGIN_VALUE", domain.DefaultLoginValue),
			},
			ExemptPaths: c.MayCSV("EXEMPT_PATHS", []string{domain.DefaultExemptPath}),
			LoginError:  c.MayString("LOGIN_ERROR", domain.DefaultLoginError),
		},
	}
}
