package lawhelp_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

type chatSession struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type chatMessage struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Content string `json:"content"`
}

func TestChatFlow(t *testing.T) {
	ts := setupServer(t)

	token := registerUser(t, ts, "chat-e2e@example.com", "correct horse battery")

	// create a session
	resp := postJSON(t, ts.URL+"/v1/chat/sessions", token, map[string]string{
		"title": "Rental bond question",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	session := decode[chatSession](t, resp)
	require.Equal(t, "Rental bond question", session.Title)

	// post a message
	resp = postJSON(t, ts.URL+"/v1/chat/sessions/"+session.ID+"/messages", token, map[string]string{
		"sender":  "user",
		"content": "Can my landlord keep my bond without a reason?",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	msg := decode[chatMessage](t, resp)
	require.Equal(t, "user", msg.Sender)

	// list messages
	resp = getJSON(t, ts.URL+"/v1/chat/sessions/"+session.ID+"/messages", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	msgs := decode[[]chatMessage](t, resp)
	require.Len(t, msgs, 1)

	// another user cannot see the session
	otherToken := registerUser(t, ts, "intruder@example.com", "correct horse battery")
	resp = getJSON(t, ts.URL+"/v1/chat/sessions/"+session.ID, otherToken)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// delete the session
	resp = doJSON(t, http.MethodDelete, ts.URL+"/v1/chat/sessions/"+session.ID, token, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = getJSON(t, ts.URL+"/v1/chat/sessions/"+session.ID, token)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestLawyerDirectory(t *testing.T) {
	ts := setupServer(t)

	// register a lawyer account
	resp := postJSON(t, ts.URL+"/v1/auth/register", "", map[string]any{
		"email":    "counsel@example.com",
		"name":     "Counsel",
		"password": "correct horse battery",
		"lawyer":   true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/v1/auth/login", "", map[string]string{
		"email":    "counsel@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	lawyerToken := decode[sessionResponse](t, resp).Token

	// publish a profile
	resp = doJSON(t, http.MethodPut, ts.URL+"/v1/lawyers/me", lawyerToken, map[string]any{
		"specialty":        "tenancy",
		"location":         "Brisbane",
		"years_experience": 12,
		"rating":           4.8,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// the directory is public
	resp = getJSON(t, ts.URL+"/v1/lawyers?specialty=tenancy", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listing := decode[[]struct {
		UserID    string `json:"user_id"`
		Name      string `json:"name"`
		Specialty string `json:"specialty"`
	}](t, resp)
	require.Len(t, listing, 1)
	require.Equal(t, "Counsel", listing[0].Name)

	// non-lawyer accounts cannot publish
	clientToken := registerUser(t, ts, "justaclient@example.com", "correct horse battery")
	resp = doJSON(t, http.MethodPut, ts.URL+"/v1/lawyers/me", clientToken, map[string]any{
		"specialty": "tenancy",
	})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}
