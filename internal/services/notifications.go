package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/patientng/patient-api/internal/models"
)

// Notifier tells owners that something they filed changed status.
type Notifier interface {
	StatusChanged(owner *models.User, subject, status string)
}

const textbeltURL = "https://textbelt.com/text"

// NotificationService sends SMS through Textbelt.
type NotificationService struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewNotificationService(apiKey string) *NotificationService {
	return &NotificationService{
		apiKey:   apiKey,
		endpoint: textbeltURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// StatusChanged sends the SMS in a goroutine so it doesn't block the API response.
func (s *NotificationService) StatusChanged(owner *models.User, subject, status string) {
	if s.apiKey == "" {
		glog.V(1).Info("SMS not sent: TEXTBELT_API_KEY is not set.")
		return
	}
	if owner.Phone == "" {
		glog.Infof("SMS not sent: user %s has no phone number.", owner.ID.Hex())
		return
	}
	msg := fmt.Sprintf("Hello %s, your %s is now %s.", owner.FirstName, subject, status)
	go s.send(owner.Phone, msg)
}

func (s *NotificationService) send(phone, message string) {
	postBody, _ := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})

	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		glog.Errorf("Failed to send Textbelt request for number %s: %v", phone, err)
		return
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		glog.Errorf("Textbelt returned an unreadable response for %s: %v", phone, err)
		return
	}
	if !result.Success {
		glog.Warningf("Failed to send SMS via Textbelt to %s. Reason: %s", phone, result.Error)
		return
	}
	glog.Infof("Successfully sent SMS via Textbelt to %s", phone)
}
