package service

import (
	"strings"

	"github.com/google/uuid"

	"mirfeed/internal/models"
)

const defaultAvatar = "/placeholder.svg"

// identityNamespace seeds the UUIDv5 ids of mock identities.
var identityNamespace = uuid.MustParse("4f1c2a8e-6d0b-4c1e-9a53-7d2b8f5e0c11")

type identity struct {
	name     string
	username string
	email    string
}

var identities = map[models.Provider]identity{
	models.ProviderGoogle: {
		name:     "Пользователь Google",
		username: "@google_user",
		email:    "user@gmail.com",
	},
	models.ProviderYandex: {
		name:     "Пользователь Яндекс",
		username: "@yandex_user",
		email:    "user@yandex.ru",
	},
}

// ParseProvider maps user input onto a known provider.
func ParseProvider(value string) (models.Provider, error) {
	provider := models.Provider(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := identities[provider]; !ok {
		return "", ErrUnknownProvider
	}
	return provider, nil
}

// MockIdentity returns the fixed user a provider signs in as. The same
// provider always yields the same record.
func MockIdentity(provider models.Provider) (*models.User, error) {
	id, ok := identities[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}

	return &models.User{
		ID:       uuid.NewSHA1(identityNamespace, []byte(provider)).String(),
		Name:     id.name,
		Username: id.username,
		Email:    id.email,
		Avatar:   defaultAvatar,
	}, nil
}
