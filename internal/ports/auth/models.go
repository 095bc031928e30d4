package auth

// Claims es la identidad resuelta del token. El core asume que ya viene
// verificada y usa UserID para el scoping por usuario.
type Claims struct {
	UserID string
	Email  string
}
