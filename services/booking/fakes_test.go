package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"masterbook/config"
	calendarRepo "masterbook/database/repository/calendar"
	"masterbook/models"
	"masterbook/services/scheduling"

	"go.uber.org/zap"
)

const testDate = "2024-05-01"

// memStore backs every fake repository so the fake transactor can roll
// all of them back at once.
type memStore struct {
	days     map[string]*models.CalendarDay
	masters  map[string]models.Master
	services map[string]models.Service
	orders   map[string]*models.Order
	shares   map[string]models.PendingShare
}

func newMemStore() *memStore {
	return &memStore{
		days:     map[string]*models.CalendarDay{},
		masters:  map[string]models.Master{},
		services: map[string]models.Service{},
		orders:   map[string]*models.Order{},
		shares:   map[string]models.PendingShare{},
	}
}

func dayKey(masterID, date string) string { return masterID + "|" + date }

func cloneOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Legs = append([]models.OrderLeg(nil), o.Legs...)
	return &cp
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for k, d := range s.days {
		snap.days[k] = d.Clone()
	}
	for k, m := range s.masters {
		snap.masters[k] = m
	}
	for k, v := range s.services {
		snap.services[k] = v
	}
	for k, o := range s.orders {
		snap.orders[k] = cloneOrder(o)
	}
	for k, v := range s.shares {
		snap.shares[k] = v
	}
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.days, s.masters, s.services, s.orders, s.shares = snap.days, snap.masters, snap.services, snap.orders, snap.shares
}

// ---- calendar ----

type memDays struct {
	st *memStore
	// afterGet runs after every read; tests use it to simulate a racing writer.
	afterGet func(day *models.CalendarDay)
}

func (r *memDays) GetDay(_ context.Context, masterID, date string) (*models.CalendarDay, error) {
	d := r.st.days[dayKey(masterID, date)]
	if d == nil {
		return nil, nil
	}
	out := d.Clone()
	if r.afterGet != nil {
		r.afterGet(d)
	}
	return out, nil
}

func (r *memDays) ListDays(_ context.Context, masterID, from, to string) ([]models.CalendarDay, error) {
	var out []models.CalendarDay
	for _, d := range r.st.days {
		if d.MasterID == masterID && d.Date >= from && d.Date <= to {
			out = append(out, *d.Clone())
		}
	}
	return out, nil
}

func (r *memDays) Insert(_ context.Context, day *models.CalendarDay) error {
	r.st.days[dayKey(day.MasterID, day.Date)] = day.Clone()
	return nil
}

func (r *memDays) Save(_ context.Context, day *models.CalendarDay) error {
	stored := r.st.days[dayKey(day.MasterID, day.Date)]
	if stored == nil || stored.Version != day.Version {
		return calendarRepo.ErrVersionConflict
	}
	day.Version++
	r.st.days[dayKey(day.MasterID, day.Date)] = day.Clone()
	return nil
}

func (r *memDays) Delete(_ context.Context, day *models.CalendarDay) error {
	delete(r.st.days, dayKey(day.MasterID, day.Date))
	return nil
}

func (r *memDays) EnsureIndexes() error { return nil }

// ---- masters ----

type memMasters struct{ st *memStore }

func (r *memMasters) GetByID(_ context.Context, id string) (*models.Master, error) {
	m, ok := r.st.masters[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *memMasters) GetByIDs(_ context.Context, ids []string) ([]models.Master, error) {
	var out []models.Master
	for _, id := range ids {
		if m, ok := r.st.masters[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *memMasters) FindOfferingWithDayInRange(_ context.Context, serviceIDs []string, from, to string) ([]models.Master, error) {
	var out []models.Master
	for _, id := range sortedKeys(r.st.masters) {
		m := r.st.masters[id]
		if m.Status != models.MasterStatusActive {
			continue
		}
		offers := false
		for _, sid := range serviceIDs {
			offers = offers || m.Offers(sid)
		}
		if !offers {
			continue
		}
		for _, d := range r.st.days {
			if d.MasterID == m.ID && d.Date >= from && d.Date <= to {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func (r *memMasters) Upsert(_ context.Context, m *models.Master) error {
	r.st.masters[m.ID] = *m
	return nil
}

func (r *memMasters) EnsureIndexes() error { return nil }

func sortedKeys(m map[string]models.Master) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

// ---- catalogue ----

type memServices struct{ st *memStore }

func (r *memServices) GetByID(_ context.Context, id string) (*models.Service, error) {
	svc, ok := r.st.services[id]
	if !ok {
		return nil, nil
	}
	return &svc, nil
}

func (r *memServices) GetByIDs(_ context.Context, ids []string) ([]models.Service, error) {
	var out []models.Service
	for _, id := range ids {
		if svc, ok := r.st.services[id]; ok {
			out = append(out, svc)
		}
	}
	return out, nil
}

func (r *memServices) Upsert(_ context.Context, svc *models.Service) error {
	r.st.services[svc.ID] = *svc
	return nil
}

func (r *memServices) EnsureIndexes() error { return nil }

// ---- orders ----

type memOrders struct{ st *memStore }

func (r *memOrders) Insert(_ context.Context, o *models.Order) error {
	r.st.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *memOrders) GetByID(_ context.Context, id string) (*models.Order, error) {
	o, ok := r.st.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *memOrders) GetByLegID(_ context.Context, legID string) (*models.Order, error) {
	for _, o := range r.st.orders {
		for _, leg := range o.Legs {
			if leg.ID == legID {
				return cloneOrder(o), nil
			}
		}
	}
	return nil, nil
}

func (r *memOrders) Update(_ context.Context, o *models.Order) error {
	if _, ok := r.st.orders[o.ID]; !ok {
		return errors.New("order not found")
	}
	r.st.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *memOrders) Delete(_ context.Context, id string) error {
	delete(r.st.orders, id)
	return nil
}

func (r *memOrders) CountServedByMasters(_ context.Context, clientID string, masterIDs []string) (map[string]int, error) {
	wanted := map[string]bool{}
	for _, id := range masterIDs {
		wanted[id] = true
	}
	counts := map[string]int{}
	for _, o := range r.st.orders {
		if o.ClientID != clientID || (o.Status != models.OrderStatusActive && o.Status != models.OrderStatusCompleted) {
			continue
		}
		for _, m := range o.MasterIDs() {
			if wanted[m] {
				counts[m]++
			}
		}
	}
	return counts, nil
}

func (r *memOrders) EnsureIndexes() error { return nil }

// ---- ledger, notifier, transactor, oracle ----

type memLedger struct {
	st   *memStore
	fail error
}

func (l *memLedger) CreatePendingShare(_ context.Context, masterID string, o *models.Order, leg models.OrderLeg) error {
	if l.fail != nil {
		return l.fail
	}
	l.st.shares[masterID+"|"+leg.ID] = models.PendingShare{
		MasterID: masterID, OrderID: o.ID, LegID: leg.ID, Amount: leg.Price, Status: models.ShareStatusPending,
	}
	return nil
}

func (l *memLedger) CancelPendingShare(_ context.Context, masterID string, o *models.Order, leg models.OrderLeg) error {
	key := masterID + "|" + leg.ID
	if share, ok := l.st.shares[key]; ok {
		share.Status = models.ShareStatusCancelled
		l.st.shares[key] = share
	}
	return nil
}

type pushed struct {
	role, to, title string
}

type memNotifier struct{ sent []pushed }

func (n *memNotifier) NotifyMaster(_ context.Context, id, title, _ string, _ map[string]string) {
	n.sent = append(n.sent, pushed{models.RoleMaster, id, title})
}

func (n *memNotifier) NotifyClient(_ context.Context, id, title, _ string, _ map[string]string) {
	n.sent = append(n.sent, pushed{models.RoleClient, id, title})
}

func (n *memNotifier) to(role, id string) int {
	c := 0
	for _, p := range n.sent {
		if p.role == role && p.to == id {
			c++
		}
	}
	return c
}

type memTx struct{ st *memStore }

func (tx *memTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := tx.st.snapshot()
	if err := fn(ctx); err != nil {
		tx.st.restore(snap)
		return err
	}
	return nil
}

type oracleCall struct {
	from, to  models.GeoPoint
	departure time.Time
}

type fakeOracle struct {
	secs  int
	err   error
	calls []oracleCall
}

func (o *fakeOracle) EstimateTravelSeconds(_ context.Context, from, to models.GeoPoint, departure time.Time) (int, error) {
	o.calls = append(o.calls, oracleCall{from, to, departure})
	return o.secs, o.err
}

// ---- fixture ----

var clientLocation = models.NewGeoPoint(55.7500, 37.6200)

type fixture struct {
	st       *memStore
	days     *memDays
	orders   *memOrders
	ledger   *memLedger
	notifier *memNotifier
	oracle   *fakeOracle
	reach    *Reachability
	matching *DefaultMatchingService
	svc      *DefaultOrderService
}

func newFixture(t *testing.T, reachability bool) *fixture {
	t.Helper()
	st := newMemStore()
	f := &fixture{
		st:       st,
		days:     &memDays{st: st},
		orders:   &memOrders{st: st},
		ledger:   &memLedger{st: st},
		notifier: &memNotifier{},
		oracle:   &fakeOracle{secs: 600},
	}
	cfg := config.SchedulingConfig{
		UseReachabilityOracle: reachability,
		DefaultMaxDistanceKm:  10,
		SlotDurationMinutes:   30,
	}
	log := zap.NewNop()
	f.reach = NewReachability(cfg.UseReachabilityOracle, cfg.SlotDurationMinutes, f.oracle, f.orders, log)
	f.matching = NewMatchingService(&memMasters{st: st}, f.days, &memServices{st: st}, f.orders, f.reach, cfg, log)
	f.svc = NewOrderService(f.orders, f.days, &memServices{st: st}, f.matching, f.ledger, f.notifier, &memTx{st: st}, cfg.SlotDurationMinutes, log)
	return f
}

func (f *fixture) addService(id string, maxDuration int, price float64) {
	f.st.services[id] = models.Service{ID: id, Name: id, MaxDuration: maxDuration, Price: price}
}

// addMaster places a master north of the client by dLat degrees (~111 km per degree).
func (f *fixture) addMaster(id string, dLat, rating float64, services ...string) {
	f.st.masters[id] = models.Master{
		ID:          id,
		Name:        id,
		LocationGeo: models.NewGeoPoint(clientLocation.Lat()+dLat, clientLocation.Lon()),
		Rating:      rating,
		ServiceIDs:  services,
		Status:      models.MasterStatusActive,
	}
}

// addDay publishes "HH:MM" slots; a trailing "*" occupies the slot with a foreign leg.
func (f *fixture) addDay(t *testing.T, masterID string, entries ...string) {
	t.Helper()
	day := &models.CalendarDay{ID: "day-" + masterID, MasterID: masterID, Date: testDate}
	for _, entry := range entries {
		occupied := entry[len(entry)-1] == '*'
		if occupied {
			entry = entry[:len(entry)-1]
		}
		slot := models.Slot{ID: masterID + "-" + entry, Time: at(t, entry), Occupied: occupied}
		if occupied {
			slot.LegID = "foreign"
		}
		day.Slots = append(day.Slots, slot)
	}
	f.st.days[dayKey(masterID, testDate)] = day
}

func (f *fixture) slot(t *testing.T, masterID, hhmm string) models.Slot {
	t.Helper()
	day := f.st.days[dayKey(masterID, testDate)]
	if day == nil {
		t.Fatalf("master %s has no day", masterID)
	}
	s, ok := scheduling.FindSlot(day, at(t, hhmm))
	if !ok {
		t.Fatalf("master %s has no slot %s", masterID, hhmm)
	}
	return *s
}

func at(t *testing.T, hhmm string) models.TimeOfDay {
	t.Helper()
	v, err := models.ParseTimeOfDay(hhmm)
	if err != nil {
		t.Fatalf("parse %q: %v", hhmm, err)
	}
	return v
}
