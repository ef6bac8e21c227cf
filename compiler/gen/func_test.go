package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPascal(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"user_id", "UserID"},
		{"status_name", "StatusName"},
		{"DB_Users", "DBUsers"},
		{"vwTable_Users", "VwTableUsers"},
		{"http-url", "HTTPURL"},
		{"already", "Already"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Pascal(tt.in))
		})
	}
}

func TestCamel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"user_id", "userID"},
		{"id", "id"},
		{"display_name", "displayName"},
		{"Display", "display"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Camel(tt.in))
		})
	}
}

func TestSnake(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"UserID", "user_id"},
		{"HTTPCode", "http_code"},
		{"StatusName", "status_name"},
		{"users", "users"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Snake(tt.in))
		})
	}
}

func TestReceiver(t *testing.T) {
	assert.Equal(t, "uq", Receiver("UserQuery"))
	assert.Equal(t, "du", Receiver("DBUsers"))
	assert.Equal(t, "r", Receiver("[]*"))
}

func TestInflect(t *testing.T) {
	assert.Equal(t, "Status", Singular("Statuses"))
	assert.Equal(t, "User", Singular("Users"))
}
