package backend

// loginRequest is the body of POST /auth/login.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginResponse tolerates the different token field names the backend has
// shipped under: token, accessToken, jwt and access_token.
type loginResponse struct {
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
	JWT         string `json:"jwt"`
	AccessSnake string `json:"access_token"`
}

// bearer returns the first populated token field.
func (r loginResponse) bearer() string {
	for _, t := range []string{r.Token, r.AccessToken, r.JWT, r.AccessSnake} {
		if t != "" {
			return t
		}
	}
	return ""
}

// WellbeingPayload is the body of POST /wellbeing/{id}.
type WellbeingPayload struct {
	StressPercentage int    `json:"stressPercentage"`
	StressColour     string `json:"stressColour"`
	WellbeingGist    string `json:"wellbeingGist"`
}

// GuidancePayload is the body of POST /guidance/{id}. Date is YYYY-MM-DD.
type GuidancePayload struct {
	Guidances []string `json:"guidances"`
	Date      string   `json:"date"`
}
