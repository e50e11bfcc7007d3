package authsdk

// credentialsRequest is the body of register and login.
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// sessionRequest is the body of logout and refresh. Empty session fields are
// sent as JSON null.
type sessionRequest struct {
	Username     *string `json:"username"`
	RefreshToken *string `json:"refresh_token"`
}

type setRolesRequest struct {
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

type userRequest struct {
	Username string `json:"username"`
}

// tokenResponse is the success body of register, login and refresh.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
