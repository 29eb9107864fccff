package harness

import (
	"time"

	"github.com/google/uuid"
)

// CreateAccountStatusID is a deliberately unresolvable status id. The
// deployed function's downstream DescribeCreateAccountStatus call fails
// deterministically when handed it, which is what the real-invocation check
// relies on.
const CreateAccountStatusID = "car-123456789"

// eventAccount is the originating account on the mock event envelope.
const eventAccount = "222222222222"

// AccountCreatedEvent mirrors the CloudTrail-delivered EventBridge envelope
// for an organizations CreateAccount call.
type AccountCreatedEvent struct {
	Version    string      `json:"version"`
	ID         string      `json:"id"`
	DetailType string      `json:"detail-type"`
	Source     string      `json:"source"`
	Account    string      `json:"account"`
	Time       string      `json:"time"`
	Region     string      `json:"region"`
	Resources  []string    `json:"resources"`
	Detail     EventDetail `json:"detail"`
}

// EventDetail is the CloudTrail detail payload of the envelope.
type EventDetail struct {
	EventName        string           `json:"eventName"`
	EventSource      string           `json:"eventSource"`
	ResponseElements ResponseElements `json:"responseElements"`
}

// ResponseElements carries the CreateAccount response from CloudTrail.
type ResponseElements struct {
	CreateAccountStatus CreateAccountStatus `json:"createAccountStatus"`
}

// CreateAccountStatus identifies the in-flight account creation.
type CreateAccountStatus struct {
	ID string `json:"id"`
}

// NewAccountCreatedEvent constructs a fresh mock account-creation event for
// the given region.
func NewAccountCreatedEvent(region string) AccountCreatedEvent {
	return AccountCreatedEvent{
		Version:    "0",
		ID:         uuid.NewString(),
		DetailType: "AWS API Call via CloudTrail",
		Source:     "aws.organizations",
		Account:    eventAccount,
		Time:       time.Now().Format(time.RFC3339),
		Region:     region,
		Resources:  []string{},
		Detail: EventDetail{
			EventName:   "CreateAccount",
			EventSource: "organizations.amazonaws.com",
			ResponseElements: ResponseElements{
				CreateAccountStatus: CreateAccountStatus{
					ID: CreateAccountStatusID,
				},
			},
		},
	}
}
