package clients

import (
	"context"

	"go.uber.org/zap"
)

// AuthClient talks to the auth backend.
type AuthClient struct {
	*backend
}

// NewAuthClient returns a client for the given base URL.
func NewAuthClient(baseURL string, logger *zap.Logger) *AuthClient {
	return &AuthClient{backend: newBackend(baseURL, logger)}
}

// LoginResult is the auth backend's answer to a credential login.
type LoginResult struct {
	Token           string   `json:"token"`
	AuthRoles       []string `json:"authRoles"`
	IDPartner       int      `json:"idPartner"`
	CustomerPrePaid int      `json:"customerPrePaid"`
}

// Login exchanges credentials for a bearer token.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.postJSON(ctx, "/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BackendUser is the auth backend's user record, as much of it as we read.
type BackendUser struct {
	ID      int    `json:"id"`
	Email   string `json:"email"`
	PBXUUID string `json:"pbxUuid,omitempty"`
}

// GetUserByEmail looks up the backend user record for an email address.
func (c *AuthClient) GetUserByEmail(ctx context.Context, email string) (*BackendUser, error) {
	var user BackendUser
	body := map[string]string{"email": email}
	if err := c.postJSONIdempotent(ctx, "/user/getUserByEmail", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// EditUser attaches the created PBX domain identifier to the user record.
func (c *AuthClient) EditUser(ctx context.Context, userID int, pbxUUID string) error {
	body := map[string]interface{}{"id": userID, "pbxUuid": pbxUUID}
	return c.postJSON(ctx, "/user/editUser", body, nil)
}
