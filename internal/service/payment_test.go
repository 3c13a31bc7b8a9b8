package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type fakePaymentRepo struct {
	nextID   uint
	payments map[uint]domain.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uint]domain.Payment{}}
}

func (f *fakePaymentRepo) Create(_ context.Context, payment domain.Payment) (domain.Payment, error) {
	f.nextID++
	payment.ID = f.nextID
	f.payments[payment.ID] = payment

	return payment, nil
}

func (f *fakePaymentRepo) FindByID(_ context.Context, id uint) (domain.Payment, error) {
	payment, ok := f.payments[id]
	if !ok {
		return domain.Payment{}, repository.ErrPaymentNotFound
	}

	return payment, nil
}

func (f *fakePaymentRepo) Find(_ context.Context, subscriptionIDs []uint, parentID *uint, status string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, payment := range f.payments {
		if subscriptionIDs != nil && !containsUint(subscriptionIDs, payment.SubscriptionID) {
			continue
		}
		if parentID != nil && (payment.ParentID == nil || *payment.ParentID != *parentID) {
			continue
		}
		if status != "" && payment.Status != status {
			continue
		}
		out = append(out, payment)
	}

	return out, nil
}

func (f *fakePaymentRepo) Update(_ context.Context, payment domain.Payment) (domain.Payment, error) {
	if _, ok := f.payments[payment.ID]; !ok {
		return domain.Payment{}, repository.ErrPaymentNotFound
	}
	f.payments[payment.ID] = payment

	return payment, nil
}

type fakePaymentSubRepo struct {
	subs     map[uint]domain.Subscription
	statuses map[uint]string
}

func newFakePaymentSubRepo(ids ...uint) *fakePaymentSubRepo {
	f := &fakePaymentSubRepo{subs: map[uint]domain.Subscription{}, statuses: map[uint]string{}}
	for _, id := range ids {
		f.subs[id] = domain.Subscription{ID: id, Status: domain.SubscriptionStatusPendingPayment}
	}

	return f
}

func (f *fakePaymentSubRepo) FindByID(_ context.Context, id uint) (domain.Subscription, error) {
	sub, ok := f.subs[id]
	if !ok {
		return domain.Subscription{}, repository.ErrSubscriptionNotFound
	}

	return sub, nil
}

func (f *fakePaymentSubRepo) UpdateStatus(_ context.Context, id uint, status string) error {
	if _, ok := f.subs[id]; !ok {
		return repository.ErrSubscriptionNotFound
	}
	sub := f.subs[id]
	sub.Status = status
	f.subs[id] = sub
	f.statuses[id] = status

	return nil
}

func (f *fakePaymentSubRepo) FindIDsByStudents(_ context.Context, _ []uint) ([]uint, error) {
	ids := make([]uint, 0, len(f.subs))
	for id := range f.subs {
		ids = append(ids, id)
	}

	return ids, nil
}

type fakePayStudentRepo struct{}

func (fakePayStudentRepo) FindIDsBySchools(_ context.Context, _ []uint) ([]uint, error) {
	return []uint{1}, nil
}

// stubCreds makes generated credentials deterministic.
type stubCreds struct {
	password string
	code     string
}

func (s stubCreds) TemporaryPassword() (string, error) { return s.password, nil }
func (s stubCreds) VerificationCode() (string, error)  { return s.code, nil }
func (s stubCreds) AdminEmail(first, last, school string) (email string) {
	return "admin." + first + "." + last + "@" + school + ".dabali.bf"
}

func newPaymentServiceForTest(repo *fakePaymentRepo, subs *fakePaymentSubRepo) *PaymentService {
	return NewPaymentService(repo, subs, fakePayStudentRepo{}, stubCreds{password: "Temp1234!abc", code: "0042"})
}

func TestCreatePaymentCashCompletesInstantly(t *testing.T) {
	repo := newFakePaymentRepo()
	subs := newFakePaymentSubRepo(1)
	svc := newPaymentServiceForTest(repo, subs)

	parent := domain.User{ID: 9, Role: domain.RoleParent}
	payment, err := svc.CreatePayment(context.Background(), 1, 15000, domain.PaymentMethodCash, parent)
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusCompleted, payment.Status)
	assert.NotNil(t, payment.PaidAt)
	assert.Nil(t, payment.VerificationCode)
	require.NotNil(t, payment.ParentID)
	assert.Equal(t, parent.ID, *payment.ParentID)

	assert.Equal(t, domain.SubscriptionStatusActive, subs.statuses[1])
}

func TestCreatePaymentMobileMoneyAwaitsValidation(t *testing.T) {
	repo := newFakePaymentRepo()
	subs := newFakePaymentSubRepo(1)
	svc := newPaymentServiceForTest(repo, subs)

	parent := domain.User{ID: 9, Role: domain.RoleParent}
	payment, err := svc.CreatePayment(context.Background(), 1, 15000, domain.PaymentMethodOrangeMoney, parent)
	require.NoError(t, err)

	assert.Equal(t, domain.PaymentStatusWaitingAdminValidation, payment.Status)
	assert.Nil(t, payment.PaidAt)
	require.NotNil(t, payment.VerificationCode)
	assert.Equal(t, "0042", *payment.VerificationCode)

	assert.Equal(t, domain.SubscriptionStatusPendingPayment, subs.statuses[1])
}

func TestCreatePaymentRejectsUnknownMethod(t *testing.T) {
	svc := newPaymentServiceForTest(newFakePaymentRepo(), newFakePaymentSubRepo(1))

	_, err := svc.CreatePayment(context.Background(), 1, 100, "CRYPTO", domain.User{ID: 9, Role: domain.RoleParent})
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestCreatePaymentAdminHasNoParentID(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newPaymentServiceForTest(repo, newFakePaymentSubRepo(1))

	payment, err := svc.CreatePayment(context.Background(), 1, 100, domain.PaymentMethodCash, domain.User{ID: 2, Role: domain.RoleSchoolAdmin})
	require.NoError(t, err)
	assert.Nil(t, payment.ParentID)
}

func TestVerifyPaymentCodeRules(t *testing.T) {
	repo := newFakePaymentRepo()
	subs := newFakePaymentSubRepo(1)
	svc := newPaymentServiceForTest(repo, subs)
	parent := domain.User{ID: 9, Role: domain.RoleParent}

	payment, err := svc.CreatePayment(context.Background(), 1, 15000, domain.PaymentMethodMoovMoney, parent)
	require.NoError(t, err)

	wrong := "9999"
	_, err = svc.VerifyPayment(context.Background(), payment.ID, "COMPLETED", &wrong, parent)
	assert.ErrorIs(t, err, ErrWrongVerificationCode)

	right := "0042"
	verified, err := svc.VerifyPayment(context.Background(), payment.ID, "completed", &right, parent)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, verified.Status)
	assert.NotNil(t, verified.PaidAt)
}

func TestVerifyPaymentWithoutCodePasses(t *testing.T) {
	repo := newFakePaymentRepo()
	subs := newFakePaymentSubRepo(1)
	svc := newPaymentServiceForTest(repo, subs)
	parent := domain.User{ID: 9, Role: domain.RoleParent}

	payment, err := svc.CreatePayment(context.Background(), 1, 15000, domain.PaymentMethodOrangeMoney, parent)
	require.NoError(t, err)

	// No code supplied: the outcome applies unchecked.
	verified, err := svc.VerifyPayment(context.Background(), payment.ID, "COMPLETED", nil, parent)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusCompleted, verified.Status)
}

func TestVerifyPaymentOnlyAdminResyncs(t *testing.T) {
	repo := newFakePaymentRepo()
	subs := newFakePaymentSubRepo(1)
	svc := newPaymentServiceForTest(repo, subs)
	parent := domain.User{ID: 9, Role: domain.RoleParent}

	payment, err := svc.CreatePayment(context.Background(), 1, 15000, domain.PaymentMethodOrangeMoney, parent)
	require.NoError(t, err)
	require.Equal(t, domain.SubscriptionStatusPendingPayment, subs.statuses[1])

	code := "0042"
	_, err = svc.VerifyPayment(context.Background(), payment.ID, "COMPLETED", &code, parent)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionStatusPendingPayment, subs.statuses[1])

	admin := domain.User{ID: 2, Role: domain.RoleSchoolAdmin}
	_, err = svc.VerifyPayment(context.Background(), payment.ID, "COMPLETED", nil, admin)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionStatusActive, subs.statuses[1])
}

func TestVerifyPaymentRejectsUnknownOutcome(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newPaymentServiceForTest(repo, newFakePaymentSubRepo(1))

	_, err := svc.VerifyPayment(context.Background(), 1, "MAYBE", nil, domain.User{Role: domain.RoleParent})
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestValidatePaymentResyncIsIdempotent(t *testing.T) {
	repo := newFakePaymentRepo()
	subs := newFakePaymentSubRepo(1)
	svc := newPaymentServiceForTest(repo, subs)
	parent := domain.User{ID: 9, Role: domain.RoleParent}

	payment, err := svc.CreatePayment(context.Background(), 1, 15000, domain.PaymentMethodOrangeMoney, parent)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = svc.ValidatePayment(context.Background(), payment.ID, "COMPLETED")
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionStatusActive, subs.statuses[1])
	}

	// Marking it failed drops the subscription back to pending payment.
	_, err = svc.ValidatePayment(context.Background(), payment.ID, "FAILED")
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionStatusPendingPayment, subs.statuses[1])
}

func TestGetPaymentParentSeesOnlyOwn(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := newPaymentServiceForTest(repo, newFakePaymentSubRepo(1, 2))

	mine := domain.User{ID: 9, Role: domain.RoleParent}
	other := domain.User{ID: 10, Role: domain.RoleParent}

	payment, err := svc.CreatePayment(context.Background(), 1, 100, domain.PaymentMethodCash, mine)
	require.NoError(t, err)

	_, err = svc.GetPayment(context.Background(), payment.ID, mine)
	require.NoError(t, err)

	_, err = svc.GetPayment(context.Background(), payment.ID, other)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestListPaymentsEmptyScope(t *testing.T) {
	svc := newPaymentServiceForTest(newFakePaymentRepo(), newFakePaymentSubRepo(1))

	payments, err := svc.ListPayments(context.Background(), domain.User{ID: 2, Role: domain.RoleSchoolAdmin}, domain.Scope{}, "")
	require.NoError(t, err)
	assert.Empty(t, payments)
}
