package usecase_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"stock-reconciliation/internal/domain"
	"stock-reconciliation/internal/usecase"
	mock_usecase "stock-reconciliation/internal/usecase/mocks"
)

var baseTime = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func consignmentFixture(id string, day int, sent, price string) domain.Consignment {
	return domain.Consignment{
		ID:             id,
		CounterpartyID: "JOBBER-7",
		ItemID:         "BRASS-ROD",
		DispatchDate:   baseTime.AddDate(0, 0, day),
		SentQuantity:   d(sent),
		Unit:           domain.UnitKG,
		PricePerUnit:   d(price),
		Status:         domain.StatusInProcess,
	}
}

func withElementReturn(c domain.Consignment, count string) domain.Consignment {
	c.Returns = append(c.Returns, domain.Return{
		ID:            c.ID + "-R",
		ConsignmentID: c.ID,
		ReturnDate:    c.DispatchDate.AddDate(0, 0, 3),
		ElementCount: &domain.ElementCountReturn{
			ElementCount:  d(count),
			PackagingType: domain.PackagingBag,
			Category:      domain.CategoryMaal,
		},
	})
	return c
}

func TestConsignmentUseCase_Reconcile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	start := baseTime
	end := baseTime.AddDate(0, 0, 14)

	fee := d("50")
	withFee := consignmentFixture("C-2", 4, "40", "5")
	withFee.ProcessingFee = &fee

	tests := []struct {
		name         string
		counterparty string
		start        time.Time
		end          time.Time
		consignments []domain.Consignment
		repoError    error
		want         *domain.ReconciliationReport
		wantErr      bool
	}{
		{
			name:         "successful reconciliation with returns and fees",
			counterparty: "JOBBER-7",
			start:        start,
			end:          end,
			consignments: []domain.Consignment{
				withElementReturn(consignmentFixture("C-1", 2, "100", "10"), "30"),
				withFee,
			},
			want: &domain.ReconciliationReport{
				ReconciliationSummary: domain.Summary{
					CounterpartyID:        "JOBBER-7",
					TimeframeStart:        start.Format(time.DateOnly),
					TimeframeEnd:          end.Format(time.DateOnly),
					ConsignmentsProcessed: 2,
					ReturnsRecorded:       1,
				},
				TotalSentStock:   d("140"),
				TotalReturnStock: d("30"),
				TotalUsed:        d("110"),
				TotalPaidRs:      d("1250"),
			},
		},
		{
			name:         "consignments outside the timeframe are dropped",
			counterparty: "JOBBER-7",
			start:        start,
			end:          end,
			consignments: []domain.Consignment{
				consignmentFixture("C-1", 2, "100", "10"),
				consignmentFixture("C-9", 30, "500", "10"),
			},
			want: &domain.ReconciliationReport{
				ReconciliationSummary: domain.Summary{
					CounterpartyID:        "JOBBER-7",
					TimeframeStart:        start.Format(time.DateOnly),
					TimeframeEnd:          end.Format(time.DateOnly),
					ConsignmentsProcessed: 1,
				},
				TotalSentStock:   d("100"),
				TotalReturnStock: d("0"),
				TotalUsed:        d("100"),
				TotalPaidRs:      d("1000"),
			},
		},
		{
			name:         "open timeframe",
			counterparty: "JOBBER-7",
			consignments: []domain.Consignment{consignmentFixture("C-1", 2, "100", "10")},
			want: &domain.ReconciliationReport{
				ReconciliationSummary: domain.Summary{
					CounterpartyID:        "JOBBER-7",
					ConsignmentsProcessed: 1,
				},
				TotalSentStock:   d("100"),
				TotalReturnStock: d("0"),
				TotalUsed:        d("100"),
				TotalPaidRs:      d("1000"),
			},
		},
		{
			name:         "repository error",
			counterparty: "JOBBER-7",
			start:        start,
			end:          end,
			repoError:    errors.New("connection refused"),
			wantErr:      true,
		},
		{
			name:         "empty ledger",
			counterparty: "JOBBER-7",
			start:        start,
			end:          end,
			consignments: []domain.Consignment{},
			want: &domain.ReconciliationReport{
				ReconciliationSummary: domain.Summary{
					CounterpartyID: "JOBBER-7",
					TimeframeStart: start.Format(time.DateOnly),
					TimeframeEnd:   end.Format(time.DateOnly),
				},
				TotalSentStock:   d("0"),
				TotalReturnStock: d("0"),
				TotalUsed:        d("0"),
				TotalPaidRs:      d("0"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := mock_usecase.NewMockConsignmentRepository(ctrl)

			filter := domain.ListFilter{CounterpartyID: tt.counterparty, Start: tt.start, End: tt.end}
			if tt.repoError != nil {
				mRepo.EXPECT().ListConsignments(gomock.Any(), filter).Return(nil, tt.repoError)
			} else {
				mRepo.EXPECT().ListConsignments(gomock.Any(), filter).Return(tt.consignments, nil)
			}

			uc := usecase.NewConsignmentUseCase(mRepo, usecase.WithLogger(quietLogger()))
			got, gotErr := uc.Reconcile(context.Background(), tt.counterparty, tt.start, tt.end)

			if tt.wantErr {
				assert.Error(t, gotErr)
				assert.ErrorIs(t, gotErr, tt.repoError)
				assert.Nil(t, got)
				return
			}

			assert.NoError(t, gotErr)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want.ReconciliationSummary, got.ReconciliationSummary)
			assert.True(t, tt.want.TotalSentStock.Equal(got.TotalSentStock), "sent %s", got.TotalSentStock)
			assert.True(t, tt.want.TotalReturnStock.Equal(got.TotalReturnStock), "returned %s", got.TotalReturnStock)
			assert.True(t, tt.want.TotalUsed.Equal(got.TotalUsed), "used %s", got.TotalUsed)
			assert.True(t, tt.want.TotalPaidRs.Equal(got.TotalPaidRs), "paid %s", got.TotalPaidRs)
			assert.Len(t, got.Rows, tt.want.ReconciliationSummary.ConsignmentsProcessed)
		})
	}
}
