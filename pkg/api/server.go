package api

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}

// HealthResponse ответ проверки доступности сервера
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// ChangeEvent уведомление об изменении документа, рассылается подписчикам через websocket
type ChangeEvent struct {
	Key     string `json:"key"`     // ключ документа
	Version string `json:"version"` // новый токен версии
}

// TokenResponse представляет выпущенный токен доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	Subject     string `json:"subject"`      // пространство документов
	ExpiresIn   int64  `json:"expires_in"`   // время жизни в секундах
}
