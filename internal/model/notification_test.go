package model_test

import (
	"testing"

	"streamlearn/internal/model"
)

func TestNotification_Validate(t *testing.T) {
	tests := []struct {
		name    string
		n       model.Notification
		wantErr error
	}{
		{name: "valid info", n: model.Notification{Message: "Bem-vindos!", Type: model.NotificationInfo}},
		{name: "valid with button", n: model.Notification{Message: "Novo curso", Type: model.NotificationSuccess, HasButton: true, ButtonText: "Ver", ButtonURL: "#courses"}},
		{name: "empty message", n: model.Notification{Type: model.NotificationInfo}, wantErr: model.ErrEmptyMessage},
		{name: "invalid type", n: model.Notification{Message: "m", Type: "danger"}, wantErr: model.ErrInvalidType},
		{name: "button without url", n: model.Notification{Message: "m", Type: model.NotificationWarning, HasButton: true, ButtonText: "Go"}, wantErr: model.ErrButtonIncomplete},
		{name: "button fields ignored without flag", n: model.Notification{Message: "m", Type: model.NotificationWarning, ButtonText: "Go"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.n.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
