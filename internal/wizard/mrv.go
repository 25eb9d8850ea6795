package wizard

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/alder-protocol/mrv-dashboard/internal/geo"
	"github.com/alder-protocol/mrv-dashboard/internal/interfaces"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/atomic"
)

const (
	StateSelectArea  State = "SelectArea"
	StateDrawMap     State = "DrawMap"
	StateEstimating  State = "Estimating"
	StateReadyToMint State = "ReadyToMint"
	StateMinted      State = "Minted"

	DefaultEstimateTCO2 = 100
	maxReportID         = 10000
)

var ErrEmptyArea = errors.New("no area selected")

var mrvSteps = []State{
	StateSelectArea,
	StateDrawMap,
	StateEstimating,
	StateReadyToMint,
	StateMinted,
}

// Estimator computes the removals for the selected area in tCO2
type Estimator interface {
	Estimate(ctx context.Context, geojson string) (int64, error)
}

// FixedEstimator always returns Value after Delay
type FixedEstimator struct {
	Value int64
	Delay time.Duration
}

func (e FixedEstimator) Estimate(ctx context.Context, _ string) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(e.Delay):
	}
	return e.Value, nil
}

type MRVSubmitter interface {
	AddMRVReport(ctx context.Context, c contracts.ContractHandle, reportID *big.Int, projectID *big.Int, owner common.Address, date *big.Int, blob string) (*types.Receipt, error)
}

type MRVSubmission struct {
	ProjectID     string `json:"projectId" validate:"required,number"`
	Geojson       string `json:"geojson"`
	EstimatedTCO2 int64  `json:"estimatedTCO2"`
}

type MRVView struct {
	ID       string        `json:"id"`
	State    State         `json:"state"`
	Step     int           `json:"step"`
	Data     MRVSubmission `json:"data"`
	AreaHa   float64       `json:"areaHa"`
	Pending  bool          `json:"pending"`
	ReportID *int64        `json:"reportId,omitempty"`
	TxHash   string        `json:"txHash,omitempty"`
}

type MRVWizard struct {
	id string

	// state
	machine  *Machine
	data     MRVSubmission
	drawing  *geo.Drawing
	areaHa   float64
	reportID *int64
	txHash   common.Hash
	inFlight atomic.Bool
	mu       sync.Mutex

	// deps
	conn      Connection
	submitter MRVSubmitter
	estimator Estimator
	reportIDs func() (int64, error)
	now       func() time.Time
	log       interfaces.ILogger
}

func NewMRVWizard(id string, conn Connection, submitter MRVSubmitter, estimator Estimator, log interfaces.ILogger) *MRVWizard {
	if estimator == nil {
		estimator = FixedEstimator{Value: DefaultEstimateTCO2}
	}
	return &MRVWizard{
		id:        id,
		machine:   NewMachine(mrvSteps, nil),
		conn:      conn,
		submitter: submitter,
		estimator: estimator,
		reportIDs: randomReportID,
		now:       time.Now,
		log:       log,
	}
}

func (w *MRVWizard) ID() string {
	return w.id
}

func (w *MRVWizard) SetProjectID(projectID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.machine.Is(StateMinted) {
		return lib.NewKindError(lib.KindInvalidInput, "set project", ErrAlreadyClosed)
	}
	w.data.ProjectID = projectID
	return nil
}

// OpenMap moves to the drawing step, the drawing starts from the current selection
func (w *MRVWizard) OpenMap() (*geo.Drawing, error) {
	w.mu.Lock()
	if !w.machine.Is(StateSelectArea) {
		state := w.machine.State()
		w.mu.Unlock()
		return nil, invalidState("open map", state)
	}
	prev := w.data.Geojson
	w.mu.Unlock()

	drawing := geo.NewDrawing(func(geojson string) {
		w.mu.Lock()
		defer w.mu.Unlock()
		w.data.Geojson = geojson
	})
	var loadErr error
	if prev != "" {
		loadErr = drawing.Load(prev)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.machine.Is(StateSelectArea) {
		return nil, invalidState("open map", w.machine.State())
	}
	if loadErr != nil {
		w.log.Warnf("dropping invalid area selection: %s", loadErr)
		w.data.Geojson = ""
	}
	w.drawing = drawing
	_ = w.machine.MoveTo(StateDrawMap)

	return drawing, nil
}

func (w *MRVWizard) Map() (*geo.Drawing, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.machine.Is(StateDrawMap) {
		return nil, lib.NewKindError(lib.KindInvalidInput, "map", ErrMapClosed)
	}
	return w.drawing, nil
}

// SaveMap returns to area selection, it requires at least one drawn shape
func (w *MRVWizard) SaveMap() error {
	w.mu.Lock()
	if !w.machine.Is(StateDrawMap) {
		state := w.machine.State()
		w.mu.Unlock()
		return invalidState("save map", state)
	}
	drawing := w.drawing
	w.mu.Unlock()

	if drawing.Len() == 0 {
		return lib.NewKindError(lib.KindInvalidInput, "save map", ErrEmptyArea)
	}
	area := drawing.AreaHectares()

	w.mu.Lock()
	defer w.mu.Unlock()
	w.areaHa = area
	w.drawing = nil
	return w.machine.MoveTo(StateSelectArea)
}

// Start runs the estimator over the selected area
func (w *MRVWizard) Start(ctx context.Context) (int64, error) {
	w.mu.Lock()
	if !w.machine.Is(StateSelectArea) {
		state := w.machine.State()
		w.mu.Unlock()
		return 0, invalidState("start", state)
	}
	if w.data.Geojson == "" {
		w.mu.Unlock()
		return 0, lib.NewKindError(lib.KindInvalidInput, "start", ErrEmptyArea)
	}
	geojson := w.data.Geojson
	_ = w.machine.MoveTo(StateEstimating)
	w.mu.Unlock()

	value, err := w.estimator.Estimate(ctx, geojson)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		_ = w.machine.MoveTo(StateSelectArea)
		w.log.Errorf("estimation failed: %s", err)
		return 0, err
	}
	w.data.EstimatedTCO2 = value
	_ = w.machine.MoveTo(StateReadyToMint)
	return value, nil
}

// Mint records the MRV report on chain with a random report id
func (w *MRVWizard) Mint(ctx context.Context) (*types.Receipt, error) {
	if !w.inFlight.CAS(false, true) {
		return nil, lib.NewKindError(lib.KindInvalidInput, "mint", ErrInFlight)
	}
	defer w.inFlight.Store(false)

	w.mu.Lock()
	if !w.machine.Is(StateReadyToMint) {
		state := w.machine.State()
		w.mu.Unlock()
		return nil, invalidState("mint", state)
	}
	if err := checkFields(w.data, "ProjectID"); err != nil {
		w.mu.Unlock()
		return nil, lib.NewKindError(lib.KindInvalidInput, "mint", err)
	}
	data := w.data
	w.mu.Unlock()

	handle := w.conn.Contract()
	owner, ok := w.conn.Address()
	if handle == nil || !ok {
		w.log.Warn("contract or address is not available")
		return nil, lib.NewKindError(lib.KindMissingPrecondition, "mint", ErrNotConnected)
	}

	projectID, _ := new(big.Int).SetString(data.ProjectID, 10)
	if projectID == nil || projectID.Sign() < 0 {
		return nil, lib.NewKindError(lib.KindInvalidInput, "mint", errors.New("projectId must be an unsigned integer"))
	}

	reportID, err := w.reportIDs()
	if err != nil {
		return nil, err
	}

	receipt, err := w.submitter.AddMRVReport(ctx, handle, big.NewInt(reportID), projectID, owner, big.NewInt(w.now().Unix()), data.Geojson)
	if err != nil {
		w.log.Errorf("mrv report %d failed: %s", reportID, err)
		return nil, err
	}

	w.mu.Lock()
	_ = w.machine.MoveTo(StateMinted)
	w.reportID = &reportID
	w.txHash = receipt.TxHash
	w.mu.Unlock()

	w.log.Infof("mrv report %d for project %s added in tx %s", reportID, data.ProjectID, receipt.TxHash.Hex())
	return receipt, nil
}

func (w *MRVWizard) View() MRVView {
	w.mu.Lock()
	defer w.mu.Unlock()

	view := MRVView{
		ID:       w.id,
		State:    w.machine.State(),
		Step:     w.machine.Step(),
		Data:     w.data,
		AreaHa:   w.areaHa,
		Pending:  w.inFlight.Load(),
		ReportID: w.reportID,
	}
	if w.reportID != nil {
		view.TxHash = w.txHash.Hex()
	}
	return view
}

func randomReportID() (int64, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxReportID))
	if err != nil {
		return 0, err
	}
	return n.Int64(), nil
}
