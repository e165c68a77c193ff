package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/harentsoaR/apoio-comunitario-api/internal/models"
	"go.uber.org/zap"
)

// NotificationService sends SMS messages through the Textbelt API.
type NotificationService struct {
	apiKey   string
	endpoint string
	client   *http.Client
	logger   *zap.Logger
	wg       sync.WaitGroup
}

func NewNotificationService(apiKey, endpoint string, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger.Named("notifications"),
	}
}

// SendAcompanhamentoIniciadoSMS tells the mother a follow-up has started.
// The request runs in the background; failures are only logged.
func (s *NotificationService) SendAcompanhamentoIniciadoSMS(mae, profissional *models.Usuario, a *models.Acompanhamento) {
	if s.apiKey == "" {
		s.logger.Debug("SMS not sent: notifications disabled")
		return
	}
	if mae.Telefone == "" {
		s.logger.Info("SMS not sent: mae has no phone number", zap.Uint("usuario_id", mae.ID))
		return
	}

	smsBody := fmt.Sprintf(
		"Acompanhamento iniciado com %s em %s.",
		profissional.Nome,
		a.Inicio.Format("02/01/2006 15:04"),
	)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.send(mae.Telefone, smsBody); err != nil {
			s.logger.Warn("failed to send SMS", zap.Uint("usuario_id", mae.ID), zap.Error(err))
			return
		}
		s.logger.Info("SMS sent", zap.Uint("usuario_id", mae.ID))
	}()
}

// Wait blocks until in-flight messages are done.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

func (s *NotificationService) send(phone, message string) error {
	postBody, err := json.Marshal(map[string]string{
		"phone":   phone,
		"message": message,
		"key":     s.apiKey,
	})
	if err != nil {
		return err
	}

	resp, err := s.client.Post(s.endpoint, "application/json", bytes.NewBuffer(postBody))
	if err != nil {
		return fmt.Errorf("textbelt request: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode textbelt response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("textbelt rejected message: %s", result.Error)
	}
	return nil
}
