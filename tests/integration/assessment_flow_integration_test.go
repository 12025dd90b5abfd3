//go:build integration

package integration_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func baseURL() string {
	if v := os.Getenv("CISPA_TEST_BASE_URL"); strings.TrimSpace(v) != "" {
		return strings.TrimRight(v, "/")
	}
	return "http://127.0.0.1:18080"
}

// Runs the advisor journey end to end against a live server: register, seed
// the catalog, open an assessment, answer the guided questions until the flow
// reports completion, then complete and score it.
func TestAssessmentJourneyIntegration(t *testing.T) {
	client := &http.Client{Timeout: 5 * time.Second}
	base := baseURL()

	advisorEmail := fmt.Sprintf("advisor_%d@example.com", time.Now().UnixNano())
	founderEmail := fmt.Sprintf("founder_%d@example.com", time.Now().UnixNano())
	password := "Secret123!"

	var advisorResp struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	doPost(t, client, base+"/api/auth/register", "", map[string]any{
		"email":    advisorEmail,
		"password": password,
		"role":     "advisor",
	}, &advisorResp)
	if advisorResp.Token == "" || advisorResp.UserID == "" {
		t.Fatalf("unexpected register response: %+v", advisorResp)
	}

	var founderResp struct {
		Token string `json:"token"`
	}
	doPost(t, client, base+"/api/auth/register", "", map[string]any{
		"email":    founderEmail,
		"password": password,
		"role":     "founder",
	}, &founderResp)
	if founderResp.Token == "" {
		t.Fatalf("founder register did not return token")
	}

	doPost(t, client, base+"/api/seed", "", nil, nil)

	var createResp struct {
		Assessment struct {
			ID        string `json:"id"`
			Status    string `json:"status"`
			FounderID string `json:"founder_id"`
		} `json:"assessment"`
	}
	doPost(t, client, base+"/api/assessments", advisorResp.Token, map[string]any{
		"company_name":  fmt.Sprintf("Startup %d", time.Now().UnixNano()),
		"founder_email": founderEmail,
	}, &createResp)
	if createResp.Assessment.ID == "" || createResp.Assessment.Status != "in_progress" {
		t.Fatalf("unexpected create response: %+v", createResp)
	}
	if createResp.Assessment.FounderID == "" {
		t.Fatalf("founder was not linked to the assessment")
	}
	id := createResp.Assessment.ID

	// Answer guided questions until the flow runs out. The cap keeps a
	// broken flow from looping forever.
	answered := 0
	for i := 0; i < 500; i++ {
		var next struct {
			Question *struct {
				ID     string `json:"id"`
				Type   string `json:"question_type"`
				Module string `json:"module"`
			} `json:"question"`
			Completed bool `json:"completed"`
		}
		doGet(t, client, base+"/api/assessments/"+id+"/questions", advisorResp.Token, &next)
		if next.Completed {
			break
		}
		if next.Question == nil {
			t.Fatalf("flow returned neither a question nor completion")
		}
		if answered == 0 && next.Question.Module != "core" {
			t.Fatalf("first question came from module %q, want core", next.Question.Module)
		}

		value := "yes, this area is in excellent shape overall"
		if next.Question.Type == "number" {
			value = "12"
		}
		doPost(t, client, base+"/api/assessments/"+id+"/answers", founderResp.Token, map[string]any{
			"question_id":  next.Question.ID,
			"answer_value": value,
		}, nil)
		answered++
	}
	if answered == 0 {
		t.Fatalf("no questions were served; was the catalog seeded?")
	}

	var completeResp struct {
		Assessment struct {
			Status string `json:"status"`
		} `json:"assessment"`
		Scores struct {
			Overall    int            `json:"overall"`
			Dimensions map[string]int `json:"dimensions"`
		} `json:"scores"`
	}
	doPost(t, client, base+"/api/assessments/"+id+"/complete", advisorResp.Token, nil, &completeResp)
	if completeResp.Assessment.Status != "completed" {
		t.Fatalf("assessment not completed: %+v", completeResp)
	}
	if completeResp.Scores.Overall < 0 || completeResp.Scores.Overall > 100 {
		t.Fatalf("overall score out of range: %d", completeResp.Scores.Overall)
	}
	if len(completeResp.Scores.Dimensions) == 0 {
		t.Fatalf("no dimension scores returned")
	}

	var listResp struct {
		Assessments []struct {
			ID string `json:"id"`
		} `json:"assessments"`
	}
	doGet(t, client, base+"/api/assessments", founderResp.Token, &listResp)
	found := false
	for _, a := range listResp.Assessments {
		if a.ID == id {
			found = true
		}
	}
	if !found {
		t.Fatalf("founder does not see the completed assessment")
	}
}

func doPost(t *testing.T, client *http.Client, url, token string, body any, out any) {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http post %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}

func doGet(t *testing.T, client *http.Client, url, token string, out any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("http get %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		t.Fatalf("unexpected status %d for %s: %s", resp.StatusCode, url, string(bodyBytes))
	}
	if out != nil {
		decoder := json.NewDecoder(resp.Body)
		if err := decoder.Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response from %s: %v", url, err)
		}
	}
}
