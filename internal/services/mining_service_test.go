package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/config"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/events"
	"github.com/swalehazarekarindss/Crypto-Miner-App/internal/models"
	"go.uber.org/zap"
)

func testConfig() *config.Config {
	return &config.Config{
		ClaimPayoutPolicy:     config.PayoutPlanned,
		ReferralBonusTokens:   200,
		ReferralCommissionBPS: 1000,
		AdRewardMin:           5,
		AdRewardMax:           50,
	}
}

func newMiningService(w *fakeWorld, cfg *config.Config) *MiningService {
	return NewMiningService(w, w, noopAudit{}, events.NoopPublisher{}, cfg, zap.NewNop())
}

func TestStartRejectsOverlappingSession(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.addUser("miner-1")
	svc := newMiningService(w, testConfig())

	first, err := svc.Start(ctx, "miner-1", 1)
	if err != nil {
		t.Fatalf("first start: %v", err)
	}
	if first.Status != models.SessionStatusMining || first.Multiplier != 1 {
		t.Errorf("unexpected session: status=%s multiplier=%d", first.Status, first.Multiplier)
	}

	if _, err := svc.Start(ctx, "miner-1", 2); !errors.Is(err, models.ErrActiveSession) {
		t.Fatalf("second start err = %v, want ErrActiveSession", err)
	}

	// A different wallet is unaffected.
	w.addUser("miner-2")
	if _, err := svc.Start(ctx, "miner-2", 1); err != nil {
		t.Fatalf("other wallet start: %v", err)
	}

	// After claim the wallet can start again.
	if _, err := svc.Claim(ctx, "miner-1", first.ID); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := svc.Start(ctx, "miner-1", 4); err != nil {
		t.Fatalf("start after claim: %v", err)
	}
}

func TestStartRejectsNonPositiveHour(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.addUser("miner-1")
	svc := newMiningService(w, testConfig())

	for _, hour := range []int{0, -1, -24} {
		if _, err := svc.Start(ctx, "miner-1", hour); !errors.Is(err, models.ErrInvalidDuration) {
			t.Errorf("Start(hour=%d) err = %v, want ErrInvalidDuration", hour, err)
		}
	}
}

func TestUpgradeStepsToCapThenFails(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.addUser("miner-1")
	svc := newMiningService(w, testConfig())

	sess, err := svc.Start(ctx, "miner-1", 1)
	if err != nil {
		t.Fatal(err)
	}

	// multiplier starts at 1: five upgrades reach 6, the sixth fails.
	for i := 0; i < 5; i++ {
		upgraded, err := svc.Upgrade(ctx, "miner-1", sess.ID)
		if err != nil {
			t.Fatalf("upgrade %d: %v", i+1, err)
		}
		if upgraded.Multiplier != i+2 {
			t.Errorf("upgrade %d: multiplier = %d, want %d", i+1, upgraded.Multiplier, i+2)
		}
	}
	if _, err := svc.Upgrade(ctx, "miner-1", sess.ID); !errors.Is(err, models.ErrMultiplierLimit) {
		t.Fatalf("sixth upgrade err = %v, want ErrMultiplierLimit", err)
	}
}

func TestUpgradeGuards(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.addUser("miner-1")
	w.addUser("miner-2")
	svc := newMiningService(w, testConfig())

	sess, err := svc.Start(ctx, "miner-1", 1)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Upgrade(ctx, "miner-1", uuid.New()); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("unknown session err = %v, want ErrSessionNotFound", err)
	}

	// Somebody else's session looks like it doesn't exist.
	if _, err := svc.Upgrade(ctx, "miner-2", sess.ID); !errors.Is(err, models.ErrSessionNotFound) {
		t.Errorf("foreign session err = %v, want ErrSessionNotFound", err)
	}

	if _, err := svc.Claim(ctx, "miner-1", sess.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Upgrade(ctx, "miner-1", sess.ID); !errors.Is(err, models.ErrInvalidState) {
		t.Errorf("claimed session err = %v, want ErrInvalidState", err)
	}
}

func TestClaimPaysPlannedAmount(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.addUser("miner-1")
	svc := newMiningService(w, testConfig())

	sess, err := svc.Start(ctx, "miner-1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Upgrade(ctx, "miner-1", sess.ID); err != nil {
		t.Fatal(err)
	}

	// 1h at x2 under the planned policy: 3600 * 0.01 * 2 = 72 CMT.
	res, err := svc.Claim(ctx, "miner-1", sess.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if res.Earned != 72 || res.TotalEarned != 72 || res.Commission != 0 {
		t.Errorf("earned=%f total=%f commission=%f, want 72/72/0", res.Earned, res.TotalEarned, res.Commission)
	}
	if res.User.TotalToken != 72 {
		t.Errorf("balance = %f, want 72", res.User.TotalToken)
	}
	if res.Session.Status != models.SessionStatusClaimed {
		t.Errorf("status = %s, want claimed", res.Session.Status)
	}
	if res.Session.TotalEarned != 72 {
		t.Errorf("session total_earned = %f, want 72", res.Session.TotalEarned)
	}
}

func TestClaimTwiceDoesNotDoubleCredit(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.addUser("miner-1")
	svc := newMiningService(w, testConfig())

	sess, err := svc.Start(ctx, "miner-1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Claim(ctx, "miner-1", sess.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Claim(ctx, "miner-1", sess.ID); !errors.Is(err, models.ErrAlreadyClaimed) {
		t.Fatalf("second claim err = %v, want ErrAlreadyClaimed", err)
	}

	u, err := w.GetByWallet(ctx, "miner-1")
	if err != nil {
		t.Fatal(err)
	}
	if u.TotalToken != 36 {
		t.Errorf("balance = %f, want 36 (single payout)", u.TotalToken)
	}
}

func TestClaimSplitsReferralCommission(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.addUser("referrer")
	w.addUser("miner-1")
	if _, _, err := w.Redeem(ctx, "referrer", "miner-1", 200); err != nil {
		t.Fatal(err)
	}
	svc := newMiningService(w, testConfig())

	sess, err := svc.Start(ctx, "miner-1", 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Upgrade(ctx, "miner-1", sess.ID); err != nil {
		t.Fatal(err)
	}

	res, err := svc.Claim(ctx, "miner-1", sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	// 72 total, 10% commission to the referrer.
	if res.TotalEarned != 72 {
		t.Errorf("total earned = %f, want 72", res.TotalEarned)
	}
	if !almostEqual(res.Commission, 7.2) {
		t.Errorf("commission = %f, want 7.2", res.Commission)
	}
	if !almostEqual(res.Earned, 64.8) {
		t.Errorf("miner payout = %f, want 64.8", res.Earned)
	}
	if !almostEqual(res.User.TotalToken, 64.8) {
		t.Errorf("miner balance = %f, want 64.8", res.User.TotalToken)
	}

	ref, err := w.GetByWallet(ctx, "referrer")
	if err != nil {
		t.Fatal(err)
	}
	// 200 signup bonus + 7.2 commission.
	if !almostEqual(ref.TotalToken, 207.2) {
		t.Errorf("referrer balance = %f, want 207.2", ref.TotalToken)
	}
}

func TestClaimElapsedPolicyPaysCappedWindow(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.addUser("miner-1")
	cfg := testConfig()
	cfg.ClaimPayoutPolicy = config.PayoutElapsed
	svc := newMiningService(w, cfg)

	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }

	sess, err := svc.Start(ctx, "miner-1", 1)
	if err != nil {
		t.Fatal(err)
	}

	// Claim halfway through: only the elapsed window pays out.
	svc.now = func() time.Time { return t0.Add(30 * time.Minute) }
	res, err := svc.Claim(ctx, "miner-1", sess.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(res.Earned, 18) {
		t.Errorf("earned = %f, want 18", res.Earned)
	}
}

func TestStatusComputesAccrual(t *testing.T) {
	ctx := context.Background()
	w := newFakeWorld()
	w.addUser("miner-1")
	svc := newMiningService(w, testConfig())

	// No session yet.
	sess, computed, err := svc.Status(ctx, "miner-1")
	if err != nil || sess != nil || computed != nil {
		t.Fatalf("empty status = (%v, %v, %v), want all nil", sess, computed, err)
	}

	t0 := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t0 }
	started, err := svc.Start(ctx, "miner-1", 2)
	if err != nil {
		t.Fatal(err)
	}

	svc.now = func() time.Time { return t0.Add(time.Hour) }
	sess, computed, err = svc.Status(ctx, "miner-1")
	if err != nil {
		t.Fatal(err)
	}
	if sess.ID != started.ID {
		t.Errorf("status returned session %s, want %s", sess.ID, started.ID)
	}
	if computed.ElapsedSeconds != 3600 || computed.RemainingSeconds != 3600 {
		t.Errorf("elapsed=%d remaining=%d, want 3600/3600", computed.ElapsedSeconds, computed.RemainingSeconds)
	}
	if !almostEqual(computed.CurrentEarned, 36) {
		t.Errorf("current earned = %f, want 36", computed.CurrentEarned)
	}
	if computed.IsComplete {
		t.Error("session should not be complete at half time")
	}

	// Polling is read-only: a second call returns the same numbers.
	_, again, err := svc.Status(ctx, "miner-1")
	if err != nil {
		t.Fatal(err)
	}
	if *again != *computed {
		t.Errorf("repeated status differs: %+v vs %+v", again, computed)
	}
}

func almostEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
