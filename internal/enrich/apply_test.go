package enrich_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/subscription-detector/internal/enrich"
	mock_enrich "github.com/insightdelivered/subscription-detector/internal/enrich/mocks"
	"github.com/insightdelivered/subscription-detector/internal/models"
)

func subscriptions() []models.ParsedSubscription {
	return []models.ParsedSubscription{
		{ID: "a", Name: "Netflix", ServiceName: "Netflix", Merchant: "NETFLIX.COM LONDON", Cost: 9.99, Frequency: models.FrequencyMonthly, Confidence: 100},
		{ID: "b", Name: "Hndl Dogcare Svcs", ServiceName: "Hndl Dogcare Svcs", Merchant: "HNDL DOGCARE SVCS 4471", Cost: 15, Frequency: models.FrequencyWeekly, Confidence: 65},
	}
}

func TestApply(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name      string
		reply     string
		replyErr  error
		wantName  string
		wantNewID bool
	}{
		{
			name:      "renames unknown merchant",
			reply:     "Happy Hounds Dog Care",
			wantName:  "Happy Hounds Dog Care",
			wantNewID: true,
		},
		{
			name:     "keeps heuristic name on error",
			replyErr: errors.New("quota exceeded"),
			wantName: "Hndl Dogcare Svcs",
		},
		{
			name:     "keeps heuristic name on empty reply",
			replyErr: enrich.ErrEmptyName,
			wantName: "Hndl Dogcare Svcs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			namer := mock_enrich.NewMockNamer(ctrl)
			namer.EXPECT().
				CleanName(gomock.Any(), "HNDL DOGCARE SVCS 4471").
				Return(tt.reply, tt.replyErr)

			in := subscriptions()
			got := enrich.Apply(context.Background(), namer, in, zerolog.Nop())

			require.Len(t, got, 2)
			assert.Equal(t, "Netflix", got[0].Name)
			assert.Equal(t, "a", got[0].ID)
			assert.Equal(t, tt.wantName, got[1].Name)
			assert.Equal(t, tt.wantName, got[1].ServiceName)
			if tt.wantNewID {
				assert.NotEqual(t, "b", got[1].ID)
			} else {
				assert.Equal(t, "b", got[1].ID)
			}

			assert.Equal(t, subscriptions(), in)
		})
	}
}

func TestApplyNilNamer(t *testing.T) {
	in := subscriptions()
	got := enrich.Apply(context.Background(), nil, in, zerolog.Nop())
	assert.Equal(t, in, got)
}

func TestApplyCancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	namer := mock_enrich.NewMockNamer(ctrl)
	namer.EXPECT().CleanName(gomock.Any(), gomock.Any()).Times(0)

	got := enrich.Apply(ctx, namer, subscriptions(), zerolog.Nop())
	assert.Equal(t, "Hndl Dogcare Svcs", got[1].Name)
}
