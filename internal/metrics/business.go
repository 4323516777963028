package metrics

// IncrementCardCreated increments the card creation counter
func (m *Metrics) IncrementCardCreated() {
	m.safeExecute("IncrementCardCreated", func() {
		m.CardCreatedTotal.Inc()
	})
}

// IncrementCommentCreated increments the comment creation counter
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentCreatedTotal.Inc()
	})
}

// IncrementSubTaskToggled increments the sub-task toggle counter
func (m *Metrics) IncrementSubTaskToggled() {
	m.safeExecute("IncrementSubTaskToggled", func() {
		m.SubTaskToggledTotal.Inc()
	})
}

// AddNotificationsSent adds to the notifications sent counter
func (m *Metrics) AddNotificationsSent(count int) {
	m.safeExecute("AddNotificationsSent", func() {
		m.NotificationsSentTotal.Add(float64(count))
	})
}

// SetCardsTotal sets the total cards gauge
func (m *Metrics) SetCardsTotal(count int64) {
	m.safeExecute("SetCardsTotal", func() {
		m.CardsTotal.Set(float64(count))
	})
}

// SetSubTasksTotal sets the total sub-tasks gauge
func (m *Metrics) SetSubTasksTotal(count int64) {
	m.safeExecute("SetSubTasksTotal", func() {
		m.SubTasksTotal.Set(float64(count))
	})
}
