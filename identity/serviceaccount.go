package identity

import (
	"encoding/json"
	"fmt"
)

// ServiceAccount holds the fields of a Firebase service-account credential
// that token verification needs. The credential arrives as a JSON blob via
// configuration; only the project ID is actually consumed for verifying ID
// tokens, the rest is kept for diagnostics.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
}

// ParseServiceAccount parses a service-account JSON credential.
func ParseServiceAccount(data []byte) (ServiceAccount, error) {
	var sa ServiceAccount
	if err := json.Unmarshal(data, &sa); err != nil {
		return ServiceAccount{}, fmt.Errorf("parse service account: %w", err)
	}

	if sa.ProjectID == "" {
		return ServiceAccount{}, fmt.Errorf("parse service account: project_id is missing")
	}

	return sa, nil
}
