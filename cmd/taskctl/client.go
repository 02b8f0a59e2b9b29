package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// apiClient is a thin REST client over the taskhub API.
type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func newAPIClient(baseURL, token string) *apiClient {
	return &apiClient{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope mirrors the server's unified response structure.
type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Details string `json:"details"`
	} `json:"error"`
}

type userPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginPayload struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType"`
	User      userPayload `json:"user"`
}

type taskPayload struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// do sends one request and decodes the response envelope. Non-2xx responses
// become errors carrying the server's message.
func (c *apiClient) do(method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to encode request body")
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return errors.Wrap(err, "failed to build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return errors.Wrapf(err, "unexpected response (%s)", resp.Status)
	}

	if !env.Success {
		message := env.Message
		if env.Error != nil && env.Error.Details != "" {
			message = fmt.Sprintf("%s: %s", message, env.Error.Details)
		}

		return errors.Errorf("server: %s", message)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return errors.Wrap(err, "failed to decode response data")
		}
	}

	return nil
}

func (c *apiClient) register(name, email, password string) (*userPayload, error) {
	var user userPayload
	err := c.do(http.MethodPost, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *apiClient) login(email, password string) (*loginPayload, error) {
	var out loginPayload
	err := c.do(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *apiClient) logout() error {
	return c.do(http.MethodPost, "/auth/logout", nil, nil)
}

func (c *apiClient) me() (*userPayload, error) {
	var user userPayload
	if err := c.do(http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (c *apiClient) createTask(userID, title, description string) (*taskPayload, error) {
	var task taskPayload
	err := c.do(http.MethodPost, "/users/"+userID+"/tasks", map[string]string{
		"title":       title,
		"description": description,
	}, &task)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (c *apiClient) listTasks(userID, query string) ([]taskPayload, error) {
	var tasks []taskPayload
	if err := c.do(http.MethodGet, "/users/"+userID+"/tasks"+query, nil, &tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

func (c *apiClient) getTask(userID, taskID string) (*taskPayload, error) {
	var task taskPayload
	if err := c.do(http.MethodGet, "/users/"+userID+"/tasks/"+taskID, nil, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (c *apiClient) updateTask(userID, taskID string, fields map[string]any) (*taskPayload, error) {
	var task taskPayload
	if err := c.do(http.MethodPut, "/users/"+userID+"/tasks/"+taskID, fields, &task); err != nil {
		return nil, err
	}

	return &task, nil
}

func (c *apiClient) completeTask(userID, taskID string, completed bool) (*taskPayload, error) {
	var task taskPayload
	err := c.do(http.MethodPatch, "/users/"+userID+"/tasks/"+taskID+"/complete", map[string]bool{
		"completed": completed,
	}, &task)
	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (c *apiClient) deleteTask(userID, taskID string) error {
	return c.do(http.MethodDelete, "/users/"+userID+"/tasks/"+taskID, nil, nil)
}
