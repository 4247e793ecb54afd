package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/google/uuid"

	"github.com/kmorrow11/arstory/pkg/experience"
	"github.com/kmorrow11/arstory/pkg/session"
)

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

func listExperiences(client *http.Client, baseURL string) ([]string, map[string]string, error) {
	resp, err := client.Get(baseURL + "/v1/experiences")
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var experienceMap map[string]string
	if err := json.Unmarshal(body, &experienceMap); err != nil {
		return nil, nil, err
	}

	var names []string
	for name := range experienceMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, experienceMap, nil
}

func getExperience(client *http.Client, baseURL string, filename string) (*experience.Experience, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/experiences/%s", baseURL, filename))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var exp experience.Experience
	if err := json.Unmarshal(body, &exp); err != nil {
		return nil, fmt.Errorf("failed to parse experience response: %w", err)
	}
	return &exp, nil
}

// CreateSessionRequest matches the API request structure
type CreateSessionRequest struct {
	Experience string `json:"experience"`
}

func createSession(client *http.Client, baseURL string, experienceFile string) (*session.Session, error) {
	req := CreateSessionRequest{
		Experience: experienceFile,
	}

	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(
		baseURL+"/v1/session",
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to create session: %s", errorResp.Error)
	}

	var created session.Session
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("failed to parse session response: %w", err)
	}
	return &created, nil
}

// ApplyEventResponse matches the API response for the events endpoint
type ApplyEventResponse struct {
	Session *session.Session               `json:"session"`
	Effects []session.Effect               `json:"effects"`
	View    map[string]session.ElementView `json:"view"`
}

func applyEvent(client *http.Client, baseURL string, sessionID uuid.UUID, ev session.Event) (*ApplyEventResponse, error) {
	jsonData, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	resp, err := client.Post(
		fmt.Sprintf("%s/v1/session/%s/events", baseURL, sessionID),
		"application/json",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("failed to apply event: %s", errorResp.Error)
	}

	var applied ApplyEventResponse
	if err := json.Unmarshal(body, &applied); err != nil {
		return nil, fmt.Errorf("failed to parse event response: %w", err)
	}
	return &applied, nil
}
