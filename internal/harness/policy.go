// Package harness binds the config locator, provisioning driver and emulator
// session into the provision -> verify -> destroy lifecycle for the
// new-account trust-policy deployment.
package harness

import (
	"encoding/json"
	"fmt"
)

// Role names passed to the Terraform configuration under test.
const (
	AssumeRoleName = "TEST_TRUST_POLICY_WITH_ASSUME_ROLE"
	UpdateRoleName = "TEST_TRUST_POLICY_WITH_UPDATE_ROLE"
)

// FakeAccountID is the account referenced by the test trust policy principals.
const FakeAccountID = "123456789012"

// PolicyStatement binds a principal to an allowed action.
type PolicyStatement struct {
	Action    string            `json:"Action"`
	Principal map[string]string `json:"Principal"`
	Effect    string            `json:"Effect"`
}

// PolicyDocument is an IAM trust policy document.
type PolicyDocument struct {
	Version   string            `json:"Version"`
	Statement []PolicyStatement `json:"Statement"`
}

// TrustPolicyDocument returns a trust policy granting sts:AssumeRole to the
// account's root principal and sts:AssumeRoleWithSAML to its SAML provider.
func TrustPolicyDocument(accountID string) PolicyDocument {
	samlProviderARN := fmt.Sprintf("arn:aws:iam::%s:saml-provider/saml-provider", accountID)

	return PolicyDocument{
		Version: "2012-10-17",
		Statement: []PolicyStatement{
			{
				Action:    "sts:AssumeRole",
				Principal: map[string]string{"AWS": fmt.Sprintf("arn:aws:iam::%s:root", accountID)},
				Effect:    "Allow",
			},
			{
				Action:    "sts:AssumeRoleWithSAML",
				Principal: map[string]string{"Federated": samlProviderARN},
				Effect:    "Allow",
			},
		},
	}
}

// TrustPolicyJSON serializes the test trust policy, as the configuration
// expects the trust_policy variable to be a JSON string.
func TrustPolicyJSON(accountID string) (string, error) {
	data, err := json.Marshal(TrustPolicyDocument(accountID))
	if err != nil {
		return "", fmt.Errorf("failed to serialize trust policy: %w", err)
	}
	return string(data), nil
}
