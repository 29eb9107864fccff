package harness

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrustPolicyDocument(t *testing.T) {
	doc := TrustPolicyDocument(FakeAccountID)

	assert.Equal(t, "2012-10-17", doc.Version)
	require.Len(t, doc.Statement, 2)

	assume := doc.Statement[0]
	assert.Equal(t, "sts:AssumeRole", assume.Action)
	assert.Equal(t, "Allow", assume.Effect)
	assert.Equal(t, "arn:aws:iam::123456789012:root", assume.Principal["AWS"])

	saml := doc.Statement[1]
	assert.Equal(t, "sts:AssumeRoleWithSAML", saml.Action)
	assert.Equal(t, "Allow", saml.Effect)
	assert.Equal(t, "arn:aws:iam::123456789012:saml-provider/saml-provider", saml.Principal["Federated"])
}

func TestTrustPolicyJSON(t *testing.T) {
	serialized, err := TrustPolicyJSON(FakeAccountID)
	require.NoError(t, err)

	// The provisioning variable must round-trip as a JSON document.
	var doc PolicyDocument
	require.NoError(t, json.Unmarshal([]byte(serialized), &doc))
	assert.Equal(t, TrustPolicyDocument(FakeAccountID), doc)
}
