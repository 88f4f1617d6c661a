package ws

// Форматы кадров совпадают с тем, что ждет фронтенд.

// ChatInbound - входящий кадр чата. Оба поля обязательны по контракту
// соединения; кадр без них отбрасывается, соединение не закрывается.
type ChatInbound struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

type ChatOutbound struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	// Timestamp в ISO-8601
	Timestamp string `json:"timestamp"`
}

// NotificationOutbound - канал уведомлений push-only, входящих кадров нет
type NotificationOutbound struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
