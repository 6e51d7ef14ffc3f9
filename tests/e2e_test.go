package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/cookiejar"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs the full browser scenario against a live server, e.g.
//
//	E2E_BASE_URL=http://localhost:8080 go test ./tests/...

func baseURL(t *testing.T) string {
	url := os.Getenv("E2E_BASE_URL")
	if url == "" {
		t.Skip("E2E_BASE_URL not set")
	}
	return url
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar, Timeout: 10 * time.Second}
}

func postJSON(t *testing.T, client *http.Client, url string, body any) (*http.Response, map[string]any) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	defer resp.Body.Close()
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func getJSON(t *testing.T, client *http.Client, url string, out any) *http.Response {
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func answerFor(t *testing.T, question string) int {
	var a, b int
	var op string
	_, err := fmt.Sscanf(question, "%d %s %d", &a, &op, &b)
	require.NoError(t, err)
	switch op {
	case "+":
		return a + b
	case "-":
		return a - b
	case "*":
		return a * b
	}
	t.Fatalf("unexpected question %q", question)
	return 0
}

type profile struct {
	Name  string `json:"name"`
	Gold  int    `json:"gold"`
	Hat   int    `json:"hat"`
	Items []int  `json:"items"`
}

func TestFullScenario(t *testing.T) {
	base := baseURL(t)
	client := newClient(t)

	username := fmt.Sprintf("alice_e2e_%d", rand.Int31())

	resp, _ := postJSON(t, client, base+"/signup", map[string]string{
		"username": username,
		"password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var p profile
	getJSON(t, client, base+"/api/getUser", &p)
	assert.Equal(t, username, p.Name)
	assert.Equal(t, 0, p.Gold)

	// grind the minigame until the cheapest item is affordable
	var catalog struct {
		Items []struct {
			ID    int    `json:"id"`
			Price int    `json:"price"`
			Name  string `json:"name"`
		} `json:"items"`
	}
	getJSON(t, client, base+"/api/getItems", &catalog)
	require.NotEmpty(t, catalog.Items)

	cheapest := catalog.Items[0]
	for _, it := range catalog.Items {
		if it.Price < cheapest.Price {
			cheapest = it
		}
	}

	for gold := 0; gold < cheapest.Price; gold += 10 {
		var q struct {
			Question string `json:"question"`
		}
		getJSON(t, client, base+"/api/question", &q)
		resp, _ = postJSON(t, client, base+"/api/winGold", map[string]int{
			"answer": answerFor(t, q.Question),
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, _ = postJSON(t, client, base+"/api/buyItem", map[string]int{"itemId": cheapest.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = postJSON(t, client, base+"/api/equipItem", map[string]int{"itemId": cheapest.ID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	getJSON(t, client, base+"/api/getUser", &p)
	assert.Contains(t, p.Items, cheapest.ID)

	// buying twice must conflict
	resp, _ = postJSON(t, client, base+"/api/buyItem", map[string]int{"itemId": cheapest.ID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var roster struct {
		Users []struct {
			Name  string `json:"name"`
			Items int    `json:"items"`
		} `json:"users"`
	}
	getJSON(t, client, base+"/api/getUsers", &roster)
	found := false
	for _, u := range roster.Users {
		if u.Name == username {
			found = true
			assert.Equal(t, 1, u.Items)
		}
	}
	assert.True(t, found, "new user should appear in the roster")

	// logout invalidates the session
	respGet, err := client.Get(base + "/logout")
	require.NoError(t, err)
	respGet.Body.Close()
	respGet, err = client.Get(base + "/api/getUser")
	require.NoError(t, err)
	respGet.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, respGet.StatusCode)
}

func TestUnauthenticatedAccess(t *testing.T) {
	base := baseURL(t)
	client := newClient(t)

	resp, err := client.Get(base + "/api/getUser")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
