package usecase

import (
	"context"
	"errors"
	"io"
	"regexp"
	"testing"
	"time"

	"quotation_service/internal/domain/entities"
	"quotation_service/internal/usecase/interfaces"
	mock_interfaces "quotation_service/internal/usecase/interfaces/mocks"

	"github.com/sirupsen/logrus"
	"go.uber.org/mock/gomock"
)

var fixedNow = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestUseCase(repo interfaces.IQuotationRepository, allowResend bool) *QuotationUseCase {
	uc := NewQuotationUseCase(repo, QuotationUseCaseConfig{
		PublicBaseURL: "https://quotes.example.test/",
		AllowResend:   allowResend,
		Logger:        quietLogger(),
	})
	uc.newID = func() string { return "q-1" }
	uc.newProposalID = func() (string, error) { return "abc123xyz9", nil }
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func draftInput() entities.Quotation {
	return entities.Quotation{
		CustomerName:  "Acme Homes",
		CustomerEmail: "ops@acme.test",
		SiteAddress:   "1 Site Road",
		JobType:       []entities.JobType{entities.JobTypeElectric},
		Items:         []entities.LineItem{{ServiceName: "Connection", Quantity: 1, UnitPrice: 100, TotalPrice: 100}},
		VATRate:       entities.DefaultVATRate,
	}
}

func stored(owner string, status entities.QuotationStatus) entities.Quotation {
	q := draftInput()
	q.ID = "q-1"
	q.ProposalID = "abc123xyz9"
	q.CreatedBy = owner
	q.Status = status
	q.Version = 3
	q.CreatedAt = fixedNow.Add(-time.Hour)
	q.UpdatedAt = fixedNow.Add(-time.Hour)
	return q
}

func TestQuotationUseCase_PublicLink(t *testing.T) {
	uc := newTestUseCase(nil, false)
	if got := uc.PublicLink("abc123xyz9"); got != "https://quotes.example.test/proposal/abc123xyz9" {
		t.Fatalf("unexpected link %s", got)
	}

	def := NewQuotationUseCase(nil, QuotationUseCaseConfig{})
	if got := def.PublicLink("abc123xyz9"); got != "http://localhost:3000/proposal/abc123xyz9" {
		t.Fatalf("unexpected default link %s", got)
	}
}

func TestQuotationUseCase_Create(t *testing.T) {
	t.Run("missing caller", func(t *testing.T) {
		uc := newTestUseCase(nil, false)
		_, err := uc.Create(context.Background(), "  ", draftInput())
		if !errors.Is(err, ErrMissingCaller) {
			t.Fatalf("expected ErrMissingCaller, got %v", err)
		}
	})

	t.Run("invalid record never reaches the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)

		in := draftInput()
		in.Items = []entities.LineItem{}
		_, err := uc.Create(context.Background(), "user-1", in)
		if !errors.Is(err, ErrQuotationValidation) {
			t.Fatalf("expected ErrQuotationValidation, got %v", err)
		}
	})

	t.Run("forces draft status and caller ownership", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)

		repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.Quotation{})).DoAndReturn(
			func(_ context.Context, q entities.Quotation) (entities.Quotation, error) {
				return q, nil
			},
		)

		in := draftInput()
		in.Status = entities.QuotationStatusAccepted
		in.CreatedBy = "someone-else"
		in.ProposalID = "zzzzzzzzzz"
		res, err := uc.Create(context.Background(), " user-1 ", in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.QuotationStatusDraft || res.CreatedBy != "user-1" {
			t.Fatalf("unexpected status/owner: %+v", res)
		}
		if res.ID != "q-1" || res.ProposalID != "abc123xyz9" {
			t.Fatalf("unexpected ids: %+v", res)
		}
		if !res.CreatedAt.Equal(fixedNow) || !res.UpdatedAt.Equal(fixedNow) || !res.QuotationDate.Equal(fixedNow) {
			t.Fatalf("expected timestamps set to now: %+v", res)
		}
	})

	t.Run("real generator produces a token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := NewQuotationUseCase(repo, QuotationUseCaseConfig{Logger: quietLogger()})

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q entities.Quotation) (entities.Quotation, error) { return q, nil },
		).Times(2)

		a, err := uc.Create(context.Background(), "user-1", draftInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		b, err := uc.Create(context.Background(), "user-1", draftInput())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		re := regexp.MustCompile(`^[a-z0-9]{10}$`)
		if !re.MatchString(a.ProposalID) || !re.MatchString(b.ProposalID) {
			t.Fatalf("unexpected proposal ids %q %q", a.ProposalID, b.ProposalID)
		}
		if a.ProposalID == b.ProposalID || a.ID == b.ID {
			t.Fatalf("expected distinct identifiers")
		}
	})

	t.Run("proposal id collision surfaces", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)

		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.Quotation{}, interfaces.ErrProposalIDConflict)

		_, err := uc.Create(context.Background(), "user-1", draftInput())
		if !errors.Is(err, ErrProposalIDConflict) {
			t.Fatalf("expected ErrProposalIDConflict, got %v", err)
		}
	})

	t.Run("generator failure", func(t *testing.T) {
		uc := newTestUseCase(nil, false)
		uc.newProposalID = func() (string, error) { return "", errors.New("entropy") }
		_, err := uc.Create(context.Background(), "user-1", draftInput())
		if err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestQuotationUseCase_ListByOwner(t *testing.T) {
	t.Run("repo error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		repo.EXPECT().ListByOwner(gomock.Any(), "user-1").Return(nil, errors.New("db"))

		_, err := uc.ListByOwner(context.Background(), "user-1")
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})

	t.Run("empty list is not nil", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		repo.EXPECT().ListByOwner(gomock.Any(), "user-1").Return(nil, nil)

		res, err := uc.ListByOwner(context.Background(), "user-1")
		if err != nil || res == nil || len(res) != 0 {
			t.Fatalf("expected empty slice, got %v %v", res, err)
		}
	})
}

// Every owner-scoped operation reports Forbidden for another user's record and
// NotFound for a missing one.
func TestQuotationUseCase_OwnershipChecks(t *testing.T) {
	ops := map[string]func(uc *QuotationUseCase, owner string) error{
		"get": func(uc *QuotationUseCase, owner string) error {
			_, err := uc.GetByID(context.Background(), owner, "q-1")
			return err
		},
		"update": func(uc *QuotationUseCase, owner string) error {
			_, err := uc.Update(context.Background(), owner, "q-1", entities.QuotationPatch{})
			return err
		},
		"delete": func(uc *QuotationUseCase, owner string) error {
			return uc.Delete(context.Background(), owner, "q-1")
		},
		"send": func(uc *QuotationUseCase, owner string) error {
			_, err := uc.MarkSent(context.Background(), owner, "q-1")
			return err
		},
	}

	for name, op := range ops {
		t.Run(name+" forbidden", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
			uc := newTestUseCase(repo, false)
			repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", entities.QuotationStatusDraft), nil)

			if err := op(uc, "user-b"); !errors.Is(err, ErrQuotationForbidden) {
				t.Fatalf("expected ErrQuotationForbidden, got %v", err)
			}
		})

		t.Run(name+" not found", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
			uc := newTestUseCase(repo, false)
			repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quotation{}, nil)

			if err := op(uc, "user-b"); !errors.Is(err, ErrQuotationNotFound) {
				t.Fatalf("expected ErrQuotationNotFound, got %v", err)
			}
		})

		t.Run(name+" repo error", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
			uc := newTestUseCase(repo, false)
			repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(entities.Quotation{}, errors.New("db"))

			if err := op(uc, "user-a"); err == nil || err.Error() != "db" {
				t.Fatalf("expected db error, got %v", err)
			}
		})
	}
}

func TestQuotationUseCase_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
	uc := newTestUseCase(repo, false)
	repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", entities.QuotationStatusDraft), nil)

	res, err := uc.GetByID(context.Background(), "user-a", " q-1 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.CreatedBy != "user-a" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestQuotationUseCase_Update(t *testing.T) {
	t.Run("immutable fields survive and version bumps", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)

		current := stored("user-a", entities.QuotationStatusSent)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(current, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, q entities.Quotation) (entities.Quotation, error) {
				if q.ProposalID != current.ProposalID || q.CreatedBy != "user-a" || q.Status != entities.QuotationStatusSent {
					t.Fatalf("immutable fields changed: %+v", q)
				}
				if q.Version != current.Version+1 || !q.UpdatedAt.Equal(fixedNow) || !q.CreatedAt.Equal(current.CreatedAt) {
					t.Fatalf("unexpected bookkeeping: %+v", q)
				}
				if q.CustomerName != "Renamed" {
					t.Fatalf("patch not applied: %+v", q)
				}
				return q, nil
			},
		)

		res, err := uc.Update(context.Background(), "user-a", "q-1", entities.QuotationPatch{CustomerName: entities.SetField("Renamed")})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.CustomerName != "Renamed" {
			t.Fatalf("unexpected result: %+v", res)
		}
	})

	t.Run("emptied required field fails validation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", entities.QuotationStatusDraft), nil)

		_, err := uc.Update(context.Background(), "user-a", "q-1", entities.QuotationPatch{SiteAddress: entities.SetField("")})
		if !errors.Is(err, ErrQuotationValidation) {
			t.Fatalf("expected ErrQuotationValidation, got %v", err)
		}
	})

	t.Run("record vanished before write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", entities.QuotationStatusDraft), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.Quotation{}, nil)

		_, err := uc.Update(context.Background(), "user-a", "q-1", entities.QuotationPatch{})
		if !errors.Is(err, ErrQuotationNotFound) {
			t.Fatalf("expected ErrQuotationNotFound, got %v", err)
		}
	})

	t.Run("status moved between read and write", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", entities.QuotationStatusDraft), nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(entities.Quotation{}, interfaces.ErrStaleQuotation)

		_, err := uc.Update(context.Background(), "user-a", "q-1", entities.QuotationPatch{CustomerName: entities.SetField("Renamed")})
		if !errors.Is(err, ErrInvalidStatusTransition) {
			t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
		}
		var terr *TransitionError
		if errors.As(err, &terr) {
			t.Fatalf("a lost race must not read as a refused transition: %v", err)
		}
	})
}

func TestQuotationUseCase_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		current := stored("user-a", entities.QuotationStatusViewed)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(current, nil)
		repo.EXPECT().Delete(gomock.Any(), current).Return(true, nil)

		if err := uc.Delete(context.Background(), "user-a", "q-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("already gone", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		current := stored("user-a", entities.QuotationStatusDraft)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(current, nil)
		repo.EXPECT().Delete(gomock.Any(), current).Return(false, nil)

		if err := uc.Delete(context.Background(), "user-a", "q-1"); !errors.Is(err, ErrQuotationNotFound) {
			t.Fatalf("expected ErrQuotationNotFound, got %v", err)
		}
	})
}

func TestQuotationUseCase_MarkSent(t *testing.T) {
	t.Run("draft becomes sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)

		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", entities.QuotationStatusDraft), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuotationStatusDraft, entities.QuotationStatusSent).
			Return(stored("user-a", entities.QuotationStatusSent), nil)

		res, err := uc.MarkSent(context.Background(), "user-a", "q-1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.QuotationStatusSent {
			t.Fatalf("expected sent, got %s", res.Status)
		}
	})

	for _, status := range []entities.QuotationStatus{entities.QuotationStatusSent, entities.QuotationStatusAccepted} {
		t.Run("already "+string(status), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
			uc := newTestUseCase(repo, true)
			repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", status), nil)

			_, err := uc.MarkSent(context.Background(), "user-a", "q-1")
			if !errors.Is(err, ErrQuotationAlreadySent) {
				t.Fatalf("expected ErrQuotationAlreadySent, got %v", err)
			}
		})
	}

	for _, status := range []entities.QuotationStatus{entities.QuotationStatusViewed, entities.QuotationStatusRejected, entities.QuotationStatusExpired} {
		t.Run("strict table rejects "+string(status), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
			uc := newTestUseCase(repo, false)
			repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", status), nil)

			_, err := uc.MarkSent(context.Background(), "user-a", "q-1")
			if !errors.Is(err, ErrInvalidStatusTransition) {
				t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
			}
			var terr *TransitionError
			if !errors.As(err, &terr) || terr.From != status || terr.To != entities.QuotationStatusSent {
				t.Fatalf("expected transition detail, got %v", err)
			}
		})

		t.Run("legacy resend allows "+string(status), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
			uc := newTestUseCase(repo, true)
			repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", status), nil)
			repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", status, entities.QuotationStatusSent).
				Return(stored("user-a", entities.QuotationStatusSent), nil)

			if _, err := uc.MarkSent(context.Background(), "user-a", "q-1"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}

	t.Run("lost race", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", entities.QuotationStatusDraft), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuotationStatusDraft, entities.QuotationStatusSent).
			Return(entities.Quotation{}, nil)

		_, err := uc.MarkSent(context.Background(), "user-a", "q-1")
		if !errors.Is(err, ErrInvalidStatusTransition) {
			t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
		}
	})
}

func TestQuotationUseCase_ViewByProposalID(t *testing.T) {
	t.Run("malformed id skips the store", func(t *testing.T) {
		uc := newTestUseCase(nil, false)
		for _, id := range []string{"", "short", "ABC123XYZ9", "abc123xyz9!"} {
			if _, err := uc.ViewByProposalID(context.Background(), id); !errors.Is(err, ErrQuotationNotFound) {
				t.Fatalf("expected ErrQuotationNotFound for %q, got %v", id, err)
			}
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		repo.EXPECT().GetByProposalID(gomock.Any(), "abc123xyz9").Return(entities.Quotation{}, nil)

		if _, err := uc.ViewByProposalID(context.Background(), "abc123xyz9"); !errors.Is(err, ErrQuotationNotFound) {
			t.Fatalf("expected ErrQuotationNotFound, got %v", err)
		}
	})

	t.Run("sent becomes viewed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		repo.EXPECT().GetByProposalID(gomock.Any(), "abc123xyz9").Return(stored("user-a", entities.QuotationStatusSent), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuotationStatusSent, entities.QuotationStatusViewed).
			Return(stored("user-a", entities.QuotationStatusViewed), nil)

		res, err := uc.ViewByProposalID(context.Background(), "abc123xyz9")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.QuotationStatusViewed {
			t.Fatalf("expected viewed, got %s", res.Status)
		}
	})

	for _, status := range []entities.QuotationStatus{entities.QuotationStatusDraft, entities.QuotationStatusViewed, entities.QuotationStatusAccepted} {
		t.Run(string(status)+" is left alone", func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
			uc := newTestUseCase(repo, false)
			repo.EXPECT().GetByProposalID(gomock.Any(), "abc123xyz9").Return(stored("user-a", status), nil)

			res, err := uc.ViewByProposalID(context.Background(), "abc123xyz9")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != status {
				t.Fatalf("expected %s, got %s", status, res.Status)
			}
		})
	}

	t.Run("concurrent viewer already flipped it", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		repo.EXPECT().GetByProposalID(gomock.Any(), "abc123xyz9").Return(stored("user-a", entities.QuotationStatusSent), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuotationStatusSent, entities.QuotationStatusViewed).
			Return(entities.Quotation{}, nil)
		repo.EXPECT().GetByID(gomock.Any(), "q-1").Return(stored("user-a", entities.QuotationStatusViewed), nil)

		res, err := uc.ViewByProposalID(context.Background(), "abc123xyz9")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != entities.QuotationStatusViewed {
			t.Fatalf("expected viewed, got %s", res.Status)
		}
	})

	t.Run("status write error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIQuotationRepository(ctrl)
		uc := newTestUseCase(repo, false)
		repo.EXPECT().GetByProposalID(gomock.Any(), "abc123xyz9").Return(stored("user-a", entities.QuotationStatusSent), nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), "q-1", entities.QuotationStatusSent, entities.QuotationStatusViewed).
			Return(entities.Quotation{}, errors.New("db"))

		if _, err := uc.ViewByProposalID(context.Background(), "abc123xyz9"); err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}
