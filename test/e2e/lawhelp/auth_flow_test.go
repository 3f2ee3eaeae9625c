package lawhelp_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/require"

	"github.com/lawhelp/lawhelp/internal/domain"
)

func TestRegisterLoginVerifyFlow(t *testing.T) {
	ts := setupServer(t)

	// register; a session token is issued immediately
	resp := postJSON(t, ts.URL+"/v1/auth/register", "", map[string]any{
		"email":    "flow@example.com",
		"name":     "Flow",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[sessionResponse](t, resp)
	require.NotEmpty(t, created.Token)
	require.False(t, created.User.EmailVerified)

	// duplicate registration conflicts
	resp = postJSON(t, ts.URL+"/v1/auth/register", "", map[string]any{
		"email":    "flow@example.com",
		"name":     "Flow Again",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[errorResponse](t, resp)
	require.Equal(t, "email_taken", errBody.Error)

	// login works before email verification
	resp = postJSON(t, ts.URL+"/v1/auth/login", "", map[string]string{
		"email":    "flow@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decode[sessionResponse](t, resp)
	require.False(t, session.User.EmailVerified)

	// wrong password rejected
	resp = postJSON(t, ts.URL+"/v1/auth/login", "", map[string]string{
		"email":    "flow@example.com",
		"password": "wrong password",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// verify email with the delivered code
	code := ts.Codes.For("flow@example.com", domain.CodeEmailVerification)
	require.NotEmpty(t, code)
	resp = postJSON(t, ts.URL+"/v1/auth/verify-email", "", map[string]string{
		"email": "flow@example.com",
		"code":  code,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// replaying the code fails with a uniform error
	resp = postJSON(t, ts.URL+"/v1/auth/verify-email", "", map[string]string{
		"email": "flow@example.com",
		"code":  code,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errBody = decode[errorResponse](t, resp)
	require.Equal(t, "invalid_code", errBody.Error)

	// fresh login reflects the verified email
	resp = postJSON(t, ts.URL+"/v1/auth/login", "", map[string]string{
		"email":    "flow@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session = decode[sessionResponse](t, resp)
	require.True(t, session.User.EmailVerified)
}

func TestTwoFactorEndToEnd(t *testing.T) {
	ts := setupServer(t)

	token := registerUser(t, ts, "mfa-e2e@example.com", "correct horse battery")

	// start enrollment; secret, QR payload, and backup codes arrive once
	resp := postJSON(t, ts.URL+"/v1/auth/2fa/setup", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	setup := decode[struct {
		Secret      string   `json:"secret"`
		QRCode      string   `json:"qr_code"`
		BackupCodes []string `json:"backup_codes"`
	}](t, resp)
	require.NotEmpty(t, setup.Secret)
	require.Contains(t, setup.QRCode, "otpauth://")
	require.Len(t, setup.BackupCodes, 10)

	// confirm with a live code
	code, err := totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	resp = postJSON(t, ts.URL+"/v1/auth/2fa/confirm", token, map[string]string{"code": code})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	// login now demands a second factor
	resp = postJSON(t, ts.URL+"/v1/auth/login", "", map[string]string{
		"email":    "mfa-e2e@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	challenge := decode[challengeResponse](t, resp)
	require.True(t, challenge.TwoFactorRequired)
	require.NotEmpty(t, challenge.ChallengeID)

	// complete with TOTP
	code, err = totp.GenerateCode(setup.Secret, time.Now())
	require.NoError(t, err)
	resp = postJSON(t, ts.URL+"/v1/auth/2fa/complete", "", map[string]string{
		"challenge_id": challenge.ChallengeID,
		"method":       "totp",
		"code":         code,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decode[sessionResponse](t, resp)
	require.NotEmpty(t, session.Token)
	require.True(t, session.User.TwoFactorEnabled)

	// a completed challenge cannot be replayed
	resp = postJSON(t, ts.URL+"/v1/auth/2fa/complete", "", map[string]string{
		"challenge_id": challenge.ChallengeID,
		"method":       "totp",
		"code":         code,
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestBackupCodeLoginIsSingleUse(t *testing.T) {
	ts := setupServer(t)

	token := registerUser(t, ts, "backup-e2e@example.com", "correct horse battery")

	resp := postJSON(t, ts.URL+"/v1/auth/2fa/setup", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	backup := decode[struct {
		Secret      string   `json:"secret"`
		BackupCodes []string `json:"backup_codes"`
	}](t, resp)

	code, err := totp.GenerateCode(backup.Secret, time.Now())
	require.NoError(t, err)
	resp = postJSON(t, ts.URL+"/v1/auth/2fa/confirm", token, map[string]string{"code": code})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	login := func() challengeResponse {
		resp := postJSON(t, ts.URL+"/v1/auth/login", "", map[string]string{
			"email":    "backup-e2e@example.com",
			"password": "correct horse battery",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decode[challengeResponse](t, resp)
	}

	// first use of the backup code succeeds
	challenge := login()
	resp = postJSON(t, ts.URL+"/v1/auth/2fa/complete", "", map[string]string{
		"challenge_id": challenge.ChallengeID,
		"method":       "backup_code",
		"code":         backup.BackupCodes[0],
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// second use of the same code fails
	challenge = login()
	resp = postJSON(t, ts.URL+"/v1/auth/2fa/complete", "", map[string]string{
		"challenge_id": challenge.ChallengeID,
		"method":       "backup_code",
		"code":         backup.BackupCodes[0],
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	errBody := decode[errorResponse](t, resp)
	require.Equal(t, "invalid_code", errBody.Error)
}

func TestMeEndpoint(t *testing.T) {
	ts := setupServer(t)

	token := registerUser(t, ts, "me@example.com", "correct horse battery")

	resp := getJSON(t, ts.URL+"/v1/me", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[struct {
		Email                string `json:"email"`
		EmailVerified        bool   `json:"email_verified"`
		TwoFactorEnabled     bool   `json:"two_factor_enabled"`
		BackupCodesRemaining int    `json:"backup_codes_remaining"`
	}](t, resp)
	require.Equal(t, "me@example.com", me.Email)
	require.True(t, me.EmailVerified)
	require.False(t, me.TwoFactorEnabled)

	// no token is rejected
	resp = getJSON(t, ts.URL+"/v1/me", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// garbage token is rejected
	resp = getJSON(t, ts.URL+"/v1/me", "not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestHealthEndpoints(t *testing.T) {
	ts := setupServer(t)

	resp := getJSON(t, ts.URL+"/livez", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	live := decode[struct {
		Status string `json:"status"`
	}](t, resp)
	require.Equal(t, "ok", live.Status)

	resp = getJSON(t, ts.URL+"/readyz", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ready := decode[struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
		} `json:"checks"`
	}](t, resp)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
}
