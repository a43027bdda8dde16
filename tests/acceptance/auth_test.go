package acceptance

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/suprema-shop/auth-service/internal/dto"
)

func (s *Suite) postJSON(path string, body any) *http.Response {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.BaseURL+path, "application/json", bytes.NewBuffer(payload))
	s.Require().NoError(err)
	return resp
}

func (s *Suite) doJSON(method, path, accessToken string, body any) *http.Response {
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, s.BaseURL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

// signupVerified walks the full signup flow: create the account, pull the
// verification link out of the captured email, and verify it.
func (s *Suite) signupVerified(name, email, password string) {
	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Name:            name,
		Email:           email,
		PhoneNumber:     "+15550001111",
		Password:        password,
		PasswordConfirm: password,
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode, "signup should succeed")

	mail, ok := s.Mailer.lastFor(email)
	s.Require().True(ok, "verification email should be sent")

	userID := extractURLSuffix(mail.HTML, frontendURL+"/verify-account/")
	s.Require().NotEmpty(userID)

	verifyResp := s.doJSON("PATCH", "/api/v1/auth/verify-account/"+userID, "", nil)
	defer verifyResp.Body.Close()
	s.Require().Equal(http.StatusOK, verifyResp.StatusCode, "verification should succeed")
}

func (s *Suite) login(email, password string) (dto.AuthResponse, []*http.Cookie) {
	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{Email: email, Password: password})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode, "login should succeed")

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&authResp))
	return authResp, resp.Cookies()
}

// extractURLSuffix returns the path segment following prefix, up to the
// closing quote of the href attribute.
func extractURLSuffix(html, prefix string) string {
	idx := strings.Index(html, prefix)
	if idx < 0 {
		return ""
	}
	rest := html[idx+len(prefix):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func (s *Suite) TestSignup_Success() {
	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Name:            "alice",
		Email:           "alice@example.com",
		PhoneNumber:     "+15550001111",
		Password:        "Password123",
		PasswordConfirm: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var successResp dto.SuccessResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&successResp))
	s.Equal("Token sent to email", successResp.Message)

	mail, ok := s.Mailer.lastFor("alice@example.com")
	s.Require().True(ok)
	s.Contains(mail.HTML, frontendURL+"/verify-account/")
}

func (s *Suite) TestSignup_PasswordMismatch() {
	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Name:            "alice",
		Email:           "alice@example.com",
		PhoneNumber:     "+15550001111",
		Password:        "Password123",
		PasswordConfirm: "Different456",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestSignup_DuplicateEmail() {
	s.signupVerified("alice", "duplicate@example.com", "Password123")

	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Name:            "alice2",
		Email:           "duplicate@example.com",
		PhoneNumber:     "+15550002222",
		Password:        "Password123",
		PasswordConfirm: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestLogin_Success() {
	s.signupVerified("alice", "login@example.com", "Password123")

	authResp, cookies := s.login("login@example.com", "Password123")

	s.NotEmpty(authResp.AccessToken)
	s.NotEmpty(authResp.RefreshToken)
	s.Require().NotNil(authResp.User)
	s.Equal("login@example.com", authResp.User.Email)

	names := make([]string, 0, len(cookies))
	for _, cookie := range cookies {
		names = append(names, cookie.Name)
	}
	s.Contains(names, "accessToken")
	s.Contains(names, "refreshToken")
}

func (s *Suite) TestLogin_UnverifiedAccount() {
	resp := s.postJSON("/api/v1/auth/signup", dto.SignupRequest{
		Name:            "alice",
		Email:           "unverified@example.com",
		PhoneNumber:     "+15550001111",
		Password:        "Password123",
		PasswordConfirm: "Password123",
	})
	resp.Body.Close()

	loginResp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "unverified@example.com",
		Password: "Password123",
	})
	defer loginResp.Body.Close()

	s.Equal(http.StatusUnauthorized, loginResp.StatusCode)
}

func (s *Suite) TestLogin_WrongPassword() {
	s.signupVerified("alice", "wrongpass@example.com", "CorrectPassword1")

	resp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{
		Email:    "wrongpass@example.com",
		Password: "WrongPassword1",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Incorrect email or password", errResp.Message)
}

func (s *Suite) TestSecondLogin_ReusesRefreshToken() {
	s.signupVerified("alice", "relogin@example.com", "Password123")

	first, _ := s.login("relogin@example.com", "Password123")
	second, _ := s.login("relogin@example.com", "Password123")

	s.Equal(first.RefreshToken, second.RefreshToken)
	s.NotEmpty(second.AccessToken)
}

func (s *Suite) TestGetMe_Success() {
	s.signupVerified("alice", "getme@example.com", "Password123")
	authResp, _ := s.login("getme@example.com", "Password123")

	resp := s.doJSON("GET", "/api/v1/auth/me", authResp.AccessToken, nil)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var userResp dto.UserInfo
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&userResp))
	s.Equal("getme@example.com", userResp.Email)
	s.True(userResp.Verified)
}

func (s *Suite) TestGetMe_NoToken() {
	resp := s.doJSON("GET", "/api/v1/auth/me", "", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)
}

func (s *Suite) TestGetMe_InvalidToken() {
	resp := s.doJSON("GET", "/api/v1/auth/me", "invalid-token", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestRefresh_RotatesToken() {
	s.signupVerified("alice", "refresh@example.com", "Password123")
	authResp, _ := s.login("refresh@example.com", "Password123")

	resp := s.postJSON("/api/v1/auth/refresh-token", dto.RefreshRequest{RefreshToken: authResp.RefreshToken})
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var refreshed dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&refreshed))
	s.NotEmpty(refreshed.AccessToken)
	s.NotEmpty(refreshed.RefreshToken)
	s.NotEqual(authResp.RefreshToken, refreshed.RefreshToken)

	// The rotated-away token is dead.
	replay := s.postJSON("/api/v1/auth/refresh-token", dto.RefreshRequest{RefreshToken: authResp.RefreshToken})
	defer replay.Body.Close()
	s.Equal(http.StatusUnauthorized, replay.StatusCode)
}

func (s *Suite) TestRefresh_ViaCookie() {
	s.signupVerified("alice", "refreshcookie@example.com", "Password123")
	_, cookies := s.login("refreshcookie@example.com", "Password123")

	req, err := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/refresh-token", nil)
	s.Require().NoError(err)
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestRefresh_NoToken() {
	resp := s.doJSON("POST", "/api/v1/auth/refresh-token", "", nil)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestLogout_KillsRefreshToken() {
	s.signupVerified("alice", "logout@example.com", "Password123")
	authResp, _ := s.login("logout@example.com", "Password123")

	resp := s.doJSON("POST", "/api/v1/auth/logout", authResp.AccessToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	refreshResp := s.postJSON("/api/v1/auth/refresh-token", dto.RefreshRequest{RefreshToken: authResp.RefreshToken})
	defer refreshResp.Body.Close()
	s.Equal(http.StatusUnauthorized, refreshResp.StatusCode)
}

func (s *Suite) TestForgotAndResetPassword() {
	s.signupVerified("alice", "reset@example.com", "OldPassword123")

	forgotResp := s.postJSON("/api/v1/auth/forgot-password", dto.ForgotPasswordRequest{Email: "reset@example.com"})
	defer forgotResp.Body.Close()
	s.Require().Equal(http.StatusOK, forgotResp.StatusCode)

	mail, ok := s.Mailer.lastFor("reset@example.com")
	s.Require().True(ok, "reset email should be sent")

	token := extractURLSuffix(mail.HTML, frontendURL+"/account/reset-password/")
	s.Require().NotEmpty(token)

	resetResp := s.doJSON("PATCH", "/api/v1/auth/reset-password/"+token, "", dto.ResetPasswordRequest{
		Password:        "NewPassword456",
		PasswordConfirm: "NewPassword456",
	})
	defer resetResp.Body.Close()
	s.Require().Equal(http.StatusOK, resetResp.StatusCode)

	var authResp dto.AuthResponse
	s.Require().NoError(json.NewDecoder(resetResp.Body).Decode(&authResp))
	s.NotEmpty(authResp.AccessToken)

	// Old password is gone, new one works.
	oldLogin := s.postJSON("/api/v1/auth/login", dto.LoginRequest{Email: "reset@example.com", Password: "OldPassword123"})
	defer oldLogin.Body.Close()
	s.Equal(http.StatusUnauthorized, oldLogin.StatusCode)

	s.login("reset@example.com", "NewPassword456")
}

func (s *Suite) TestResetPassword_BadToken() {
	resp := s.doJSON("PATCH", "/api/v1/auth/reset-password/never-issued", "", dto.ResetPasswordRequest{
		Password:        "NewPassword456",
		PasswordConfirm: "NewPassword456",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestForgotPassword_UnknownEmail() {
	resp := s.postJSON("/api/v1/auth/forgot-password", dto.ForgotPasswordRequest{Email: "ghost@example.com"})
	defer resp.Body.Close()

	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestUpdatePassword() {
	s.signupVerified("alice", "update@example.com", "OldPassword123")
	authResp, _ := s.login("update@example.com", "OldPassword123")

	resp := s.doJSON("PATCH", "/api/v1/auth/update-password", authResp.AccessToken, dto.UpdatePasswordRequest{
		OldPassword:        "OldPassword123",
		NewPassword:        "NewPassword456",
		NewPasswordConfirm: "NewPassword456",
	})
	defer resp.Body.Close()
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	s.login("update@example.com", "NewPassword456")
}

func (s *Suite) TestUpdatePassword_SameAsOld() {
	s.signupVerified("alice", "samepass@example.com", "Password123")
	authResp, _ := s.login("samepass@example.com", "Password123")

	resp := s.doJSON("PATCH", "/api/v1/auth/update-password", authResp.AccessToken, dto.UpdatePasswordRequest{
		OldPassword:        "Password123",
		NewPassword:        "Password123",
		NewPasswordConfirm: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *Suite) TestAdminSignup_ForbiddenForRegularUser() {
	s.signupVerified("alice", "regular@example.com", "Password123")
	authResp, _ := s.login("regular@example.com", "Password123")

	resp := s.doJSON("POST", "/api/v1/auth/admin-signup", authResp.AccessToken, dto.SignupRequest{
		Name:            "wannabe",
		Email:           "wannabe@example.com",
		PhoneNumber:     "+15550003333",
		Password:        "Password123",
		PasswordConfirm: "Password123",
	})
	defer resp.Body.Close()

	s.Equal(http.StatusForbidden, resp.StatusCode)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&errResp))
	s.Equal("Permission denied!", errResp.Message)
}

func (s *Suite) TestDeleteMe() {
	s.signupVerified("alice", "deleteme@example.com", "Password123")
	authResp, _ := s.login("deleteme@example.com", "Password123")

	resp := s.doJSON("DELETE", "/api/v1/auth/me", authResp.AccessToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	// The account is gone.
	loginResp := s.postJSON("/api/v1/auth/login", dto.LoginRequest{Email: "deleteme@example.com", Password: "Password123"})
	defer loginResp.Body.Close()
	s.Equal(http.StatusUnauthorized, loginResp.StatusCode)
}

func (s *Suite) TestCompleteFlow() {
	email := "complete@example.com"
	s.signupVerified("alice", email, "Password123")

	authResp, _ := s.login(email, "Password123")

	meResp := s.doJSON("GET", "/api/v1/auth/me", authResp.AccessToken, nil)
	defer meResp.Body.Close()
	s.Equal(http.StatusOK, meResp.StatusCode)

	refreshResp := s.postJSON("/api/v1/auth/refresh-token", dto.RefreshRequest{RefreshToken: authResp.RefreshToken})
	defer refreshResp.Body.Close()
	s.Require().Equal(http.StatusOK, refreshResp.StatusCode)

	var refreshed dto.AuthResponse
	s.Require().NoError(json.NewDecoder(refreshResp.Body).Decode(&refreshed))

	logoutResp := s.doJSON("POST", "/api/v1/auth/logout", refreshed.AccessToken, nil)
	defer logoutResp.Body.Close()
	s.Equal(http.StatusOK, logoutResp.StatusCode)

	var successResp dto.SuccessResponse
	s.Require().NoError(json.NewDecoder(logoutResp.Body).Decode(&successResp))
	s.Equal("user logged out!", successResp.Message)
}
