package services

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexuscrm/hygiene/internal/domain/models"
	"github.com/nexuscrm/hygiene/pkg/constants"
)

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, alert models.Alert) error {
	return m.Called(ctx, alert).Error(0)
}

var (
	pendingQuery = regexp.QuoteMeta("SELECT id, recipient, subject, payload, retry_count")
	claimQuery   = regexp.QuoteMeta("FOR UPDATE SKIP LOCKED")
	pendingCols  = []string{"id", "recipient", "subject", "payload", "retry_count"}
)

func outboxAlert(t *testing.T) (models.Alert, string) {
	t.Helper()
	alert := models.Alert{ID: "alert-1", Recipient: "rep@example.com", Subject: "CRM hygiene: stale", Message: "Record 0 is stale"}
	payload, err := json.Marshal(alert)
	require.NoError(t, err)
	return alert, string(payload)
}

func TestOutboxService_Deliver(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	alert, _ := outboxAlert(t)
	mockDB.ExpectExec(regexp.QuoteMeta("INSERT INTO " + constants.TableAlertOutbox)).
		WithArgs(alert.ID, alert.Recipient, alert.Subject, sqlmock.AnyArg(), constants.OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(1, 1))

	svc := NewOutboxService(db, new(MockNotifier))
	require.NoError(t, svc.Deliver(context.Background(), alert))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestOutboxService_ProcessDelivers(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	alert, payload := outboxAlert(t)
	notifier := new(MockNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(a models.Alert) bool { return a.ID == alert.ID })).Return(nil)

	mockDB.ExpectQuery(pendingQuery).WithArgs(constants.OutboxStatusPending, constants.OutboxBatchSize).
		WillReturnRows(sqlmock.NewRows(pendingCols).AddRow(alert.ID, alert.Recipient, alert.Subject, payload, 0))
	mockDB.ExpectBegin()
	mockDB.ExpectQuery(claimQuery).WithArgs(alert.ID, constants.OutboxStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(alert.ID))
	mockDB.ExpectExec(regexp.QuoteMeta("processed_date = NOW()")).WithArgs(constants.OutboxStatusProcessed, alert.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	svc := NewOutboxService(db, notifier)
	require.NoError(t, svc.ProcessOutbox(context.Background()))

	notifier.AssertExpectations(t)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestOutboxService_ProcessRetriesThenFails(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		expect     func(m sqlmock.Sqlmock)
	}{
		{
			name:       "retry",
			retryCount: 1,
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta("SET retry_count = ?")).WithArgs(2, "webhook down", "alert-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:       "max attempts",
			retryCount: constants.OutboxMaxRetryAttempts - 1,
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectExec(regexp.QuoteMeta("SET status = ?, error_message = ?")).
					WithArgs(constants.OutboxStatusFailed, "max retries exceeded: webhook down", "alert-1").
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mockDB, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			alert, payload := outboxAlert(t)
			notifier := new(MockNotifier)
			notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("webhook down"))

			mockDB.ExpectQuery(pendingQuery).
				WillReturnRows(sqlmock.NewRows(pendingCols).AddRow(alert.ID, alert.Recipient, alert.Subject, payload, tt.retryCount))
			mockDB.ExpectBegin()
			mockDB.ExpectQuery(claimQuery).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(alert.ID))
			tt.expect(mockDB)
			mockDB.ExpectCommit()

			require.NoError(t, NewOutboxService(db, notifier).ProcessOutbox(context.Background()))
			assert.NoError(t, mockDB.ExpectationsWereMet())
		})
	}
}

func TestOutboxService_SkipsClaimedAndBadPayload(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	notifier := new(MockNotifier)

	mockDB.ExpectQuery(pendingQuery).
		WillReturnRows(sqlmock.NewRows(pendingCols).
			AddRow("taken", "a@b.co", "s", "{}", 0).
			AddRow("garbled", "a@b.co", "s", "{not json", 0))

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(claimQuery).WithArgs("taken", constants.OutboxStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mockDB.ExpectRollback()

	mockDB.ExpectBegin()
	mockDB.ExpectQuery(claimQuery).WithArgs("garbled", constants.OutboxStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("garbled"))
	mockDB.ExpectExec(regexp.QuoteMeta("SET status = ?, error_message = ?")).
		WithArgs(constants.OutboxStatusFailed, sqlmock.AnyArg(), "garbled").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mockDB.ExpectCommit()

	require.NoError(t, NewOutboxService(db, notifier).ProcessOutbox(context.Background()))
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestOutboxService_WorkerStartStop(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mockDB.MatchExpectationsInOrder(false)
	for i := 0; i < 50; i++ {
		mockDB.ExpectQuery(pendingQuery).WillReturnRows(sqlmock.NewRows(pendingCols))
	}

	svc := NewOutboxService(db, new(MockNotifier))
	svc.StartWorker(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	svc.StopWorker()
	svc.StopWorker()
}

func TestOutboxService_CleanupProcessed(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM " + constants.TableAlertOutbox)).
		WithArgs(constants.OutboxStatusProcessed, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := NewOutboxService(db, new(MockNotifier)).CleanupProcessed(context.Background(), constants.ProcessedEventRetention)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestOutboxService_WorkerRunsCleanup(t *testing.T) {
	db, mockDB, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mockDB.ExpectExec(regexp.QuoteMeta("DELETE FROM " + constants.TableAlertOutbox)).
		WithArgs(constants.OutboxStatusProcessed, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := NewOutboxService(db, new(MockNotifier))
	svc.cleanupEvery = 5 * time.Millisecond
	svc.StartWorker(time.Hour)
	time.Sleep(30 * time.Millisecond)
	svc.StopWorker()
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
