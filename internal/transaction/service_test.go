package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/hesab/internal/currency"
	"github.com/MrJamesThe3rd/hesab/internal/jalali"
	"github.com/MrJamesThe3rd/hesab/internal/transaction"
)

// fixedClock reads 1402/01/01 14:30 (2023-03-21).
var fixedClock = jalali.ClockFunc(func() time.Time {
	return time.Date(2023, time.March, 21, 14, 30, 0, 0, time.UTC)
})

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	morning := jalali.MustTimeOfDay(9, 15)

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					Amount: 1000,
					Title:  " Groceries ",
					Type:   transaction.TypeExpense,
					Date:   jalali.MustDate(1401, 12, 29),
					Time:   &morning,
				},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, "Groceries", tx.Title)
						assert.Equal(t, "1401/12/29", tx.Date.String())
						assert.Equal(t, "09:15", tx.Time.String())
						return nil
					})
			},
		},
		{
			name: "DefaultsFromClock",
			args: args{
				params: transaction.CreateParams{Amount: 5, Title: "Salary", Type: transaction.TypeIncome},
			},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, "1402/01/01", tx.Date.String())
						assert.Equal(t, "14:30", tx.Time.String())
						return nil
					})
			},
		},
		{
			name:    "ZeroAmount",
			args:    args{params: transaction.CreateParams{Amount: 0, Title: "x", Type: transaction.TypeExpense}},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name:    "NegativeAmount",
			args:    args{params: transaction.CreateParams{Amount: -10, Title: "x", Type: transaction.TypeExpense}},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name:    "EmptyTitle",
			args:    args{params: transaction.CreateParams{Amount: 10, Title: "  ", Type: transaction.TypeExpense}},
			wantErr: transaction.ErrEmptyTitle,
		},
		{
			name:    "UnknownType",
			args:    args{params: transaction.CreateParams{Amount: 10, Title: "x", Type: "transfer"}},
			wantErr: transaction.ErrInvalidType,
		},
		{
			name: "RepoError",
			args: args{params: transaction.CreateParams{Amount: 500, Title: "x", Type: transaction.TypeIncome}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo, fixedClock)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Nil(t, got)

				if !errors.Is(err, tt.wantErr) {
					assert.EqualError(t, err, tt.wantErr.Error())
				}

				return
			}

			assert.NoError(t, err)
			require.NotNil(t, got)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_Setup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, fixedClock)

	repo.EXPECT().LoadLedger(gomock.Any()).Return(&transaction.Ledger{}, nil)
	repo.EXPECT().
		ReplaceLedger(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l *transaction.Ledger) error {
			assert.True(t, l.SetupDone)
			assert.Equal(t, int64(850_000), l.InitialBalance)
			assert.Len(t, l.Transactions, 2)

			return nil
		})

	ledger, err := svc.Setup(context.Background(), transaction.SetupParams{
		CurrentBalance: 1_000_000,
		Recent: []transaction.CreateParams{
			{Amount: 200_000, Title: "Salary", Type: transaction.TypeIncome},
			{Amount: 50_000, Title: "Rent", Type: transaction.TypeExpense},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), ledger.Balance())
	assert.NotEqual(t, ledger.Transactions[0].ID, ledger.Transactions[1].ID)
}

func TestService_Setup_NoRecent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, fixedClock)

	repo.EXPECT().LoadLedger(gomock.Any()).Return(&transaction.Ledger{}, nil)
	repo.EXPECT().ReplaceLedger(gomock.Any(), gomock.Any()).Return(nil)

	ledger, err := svc.Setup(context.Background(), transaction.SetupParams{CurrentBalance: -40_000})
	require.NoError(t, err)
	assert.Equal(t, int64(-40_000), ledger.InitialBalance)
	assert.Empty(t, ledger.Transactions)
}

func TestService_Setup_Rejected(t *testing.T) {
	t.Run("AlreadySetUp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		svc := transaction.NewService(repo, fixedClock)

		repo.EXPECT().LoadLedger(gomock.Any()).Return(&transaction.Ledger{SetupDone: true}, nil)

		_, err := svc.Setup(context.Background(), transaction.SetupParams{CurrentBalance: 1})
		assert.ErrorIs(t, err, transaction.ErrAlreadySetUp)
	})

	t.Run("InvalidRecent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		repo := transaction.NewMockRepository(ctrl)
		svc := transaction.NewService(repo, fixedClock)

		repo.EXPECT().LoadLedger(gomock.Any()).Return(&transaction.Ledger{}, nil)

		_, err := svc.Setup(context.Background(), transaction.SetupParams{
			CurrentBalance: 1,
			Recent:         []transaction.CreateParams{{Amount: 0, Title: "x", Type: transaction.TypeIncome}},
		})
		assert.ErrorIs(t, err, transaction.ErrInvalidAmount)
		assert.ErrorIs(t, err, currency.ErrInvalidAmount)
	})
}

func TestService_Ledger_MalformedFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, fixedClock)

	repo.EXPECT().LoadLedger(gomock.Any()).Return(nil, transaction.ErrMalformedLedger)

	ledger, err := svc.Ledger(context.Background())
	require.NoError(t, err)
	assert.False(t, ledger.SetupDone)
	assert.Zero(t, ledger.Balance())
}

func TestService_Ledger_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, fixedClock)

	repo.EXPECT().LoadLedger(gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := svc.Balance(context.Background())
	assert.Error(t, err)
}

func TestService_BalanceAndGroups(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, fixedClock)

	ledger := &transaction.Ledger{
		SetupDone:      true,
		InitialBalance: 10_000,
		Transactions: []*transaction.Transaction{
			entry("C", "1401/12/29", "23:59"),
			entry("A", "1402/01/01", "10:00"),
		},
	}

	repo.EXPECT().LoadLedger(gomock.Any()).Return(ledger, nil).Times(2)

	balance, err := svc.Balance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(8000), balance)

	groups, err := svc.Groups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "A", groups[0].Transactions[0].ID)
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, fixedClock)

	repo.EXPECT().DeleteTransaction(gomock.Any(), "missing").Return(transaction.ErrNotFound)

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, transaction.ErrNotFound)
}

func TestService_Restore(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, fixedClock)

	backup := &transaction.Ledger{
		InitialBalance: 850_000,
		Transactions:   []*transaction.Transaction{entry("tx_1", "1402/01/01", "10:00")},
	}

	repo.EXPECT().
		ReplaceLedger(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l *transaction.Ledger) error {
			assert.True(t, l.SetupDone)
			assert.Equal(t, int64(850_000), l.InitialBalance)
			return nil
		})

	require.NoError(t, svc.Restore(context.Background(), backup))
	assert.False(t, backup.SetupDone, "caller's ledger must not be modified")
}

func TestService_Restore_Malformed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, fixedClock)

	dup := entry("same", "1402/01/01", "10:00")

	err := svc.Restore(context.Background(), &transaction.Ledger{Transactions: []*transaction.Transaction{dup, dup}})
	assert.ErrorIs(t, err, transaction.ErrMalformedLedger)
}

func TestService_Reset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, fixedClock)

	repo.EXPECT().ResetLedger(gomock.Any()).Return(nil)

	require.NoError(t, svc.Reset(context.Background()))
}

func TestValidate(t *testing.T) {
	type testCase struct {
		name    string
		ledger  *transaction.Ledger
		wantErr bool
	}

	valid := entry("ok", "1402/01/01", "10:00")

	tests := []testCase{
		{name: "Nil", ledger: nil, wantErr: true},
		{name: "Empty", ledger: &transaction.Ledger{}},
		{name: "Valid", ledger: &transaction.Ledger{Transactions: []*transaction.Transaction{valid}}},
		{name: "NilEntry", ledger: &transaction.Ledger{Transactions: []*transaction.Transaction{nil}}, wantErr: true},
		{name: "NoID", ledger: &transaction.Ledger{Transactions: []*transaction.Transaction{{Type: transaction.TypeIncome, Date: valid.Date}}}, wantErr: true},
		{name: "BadType", ledger: &transaction.Ledger{Transactions: []*transaction.Transaction{{ID: "x", Type: "gift", Date: valid.Date}}}, wantErr: true},
		{name: "NoDate", ledger: &transaction.Ledger{Transactions: []*transaction.Transaction{{ID: "x", Type: transaction.TypeIncome}}}, wantErr: true},
		{name: "EmptyTitle", ledger: &transaction.Ledger{Transactions: []*transaction.Transaction{{ID: "x", Title: "", Type: transaction.TypeIncome, Date: valid.Date}}}, wantErr: true},
		{name: "BlankTitle", ledger: &transaction.Ledger{Transactions: []*transaction.Transaction{{ID: "x", Title: "  ", Type: transaction.TypeIncome, Date: valid.Date}}}, wantErr: true},
		{name: "ZeroAmountKept", ledger: &transaction.Ledger{Transactions: []*transaction.Transaction{{ID: "x", Title: "fee", Amount: 0, Type: transaction.TypeExpense, Date: valid.Date}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := transaction.Validate(tt.ledger)
			if tt.wantErr {
				assert.ErrorIs(t, err, transaction.ErrMalformedLedger)
				return
			}

			assert.NoError(t, err)
		})
	}
}
