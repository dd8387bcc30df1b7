package mail

type NotificationEmailData struct {
	Name           string
	ExpirationDate string
	DaysRemaining  int
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
