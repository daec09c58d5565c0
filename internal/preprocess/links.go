package preprocess

import (
	"dtrecon/internal/model"
	"dtrecon/internal/source"
)

// Notification and failure-code columns.
const (
	ColCodeGroup       = "Codegruppe"
	ColNotifCode       = "Codierungscode"
	ColCode            = "Code"
	ColCodeDescription = "Kurztext zum Code"
)

// PrepareNotifications reads the notification link records.
func PrepareNotifications(t *source.Table) ([]model.Notification, error) {
	if err := model.RequireColumns(source.Notifications, t.Has, ColNotification, ColCodeGroup, ColNotifCode); err != nil {
		return nil, err
	}
	out := make([]model.Notification, 0, t.Len())
	for r := range t.Rows {
		out = append(out, model.Notification{
			ID:        model.NormalizeKey(t.Value(r, ColNotification)),
			CodeGroup: model.NormalizeKey(t.Value(r, ColCodeGroup)),
			Code:      model.NormalizeKey(t.Value(r, ColNotifCode)),
		})
	}
	return out, nil
}

// PrepareFailureCodes reads the failure-code catalogue.
func PrepareFailureCodes(t *source.Table) ([]model.FailureCode, error) {
	if err := model.RequireColumns(source.FailureCodes, t.Has, ColCodeGroup, ColCode, ColCodeDescription); err != nil {
		return nil, err
	}
	out := make([]model.FailureCode, 0, t.Len())
	for r := range t.Rows {
		out = append(out, model.FailureCode{
			CodeGroup:   model.NormalizeKey(t.Value(r, ColCodeGroup)),
			Code:        model.NormalizeKey(t.Value(r, ColCode)),
			Description: t.Value(r, ColCodeDescription),
		})
	}
	return out, nil
}
