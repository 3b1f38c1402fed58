package mqtt

import "fmt"

// DefaultTopicPrefix is used when the configuration leaves the prefix empty.
const DefaultTopicPrefix = "viahogar"

// Topics builds the topic names under a prefix.
//
//	topics := mqtt.Topics{Prefix: "viahogar"}
//	topics.SubmissionEvent("prop-1")
//	// Returns: "viahogar/events/submission/prop-1"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	if t.Prefix == "" {
		return DefaultTopicPrefix
	}
	return t.Prefix
}

// SystemStatus returns the retained status topic used for online/offline and LWT.
func (t Topics) SystemStatus() string {
	return t.prefix() + "/system/status"
}

// SubmissionEvent returns the topic for contact submissions about a property.
func (t Topics) SubmissionEvent(propertyID string) string {
	return fmt.Sprintf("%s/events/submission/%s", t.prefix(), propertyID)
}

// PropertyEvent returns the topic for changes to a property.
func (t Topics) PropertyEvent(propertyID string) string {
	return fmt.Sprintf("%s/events/property/%s", t.prefix(), propertyID)
}

// AllEvents returns a wildcard matching every event topic.
func (t Topics) AllEvents() string {
	return t.prefix() + "/events/#"
}
