package email

const (
	subjectInquiryNotificationFmt = "New inquiry from %s (%s)"
)
