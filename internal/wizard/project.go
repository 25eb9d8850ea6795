package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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
	StateProjectInformation State = "ProjectInformation"
	StateLandApplication    State = "LandApplication"
	StateFertilizers        State = "Fertilizers"
	StateLandUseChanges     State = "LandUseChanges"
	StateFinalisation       State = "Finalisation"
	StateSubmitted          State = "Submitted"

	dateLayout = "2006-01-02"
)

var (
	ErrUnknownField = errors.New("unknown field")
	ErrNotMapField  = errors.New("field does not accept a map selection")
	ErrMapClosed    = errors.New("map is not open")
)

var projectSteps = []State{
	StateProjectInformation,
	StateLandApplication,
	StateFertilizers,
	StateLandUseChanges,
	StateFinalisation,
	StateSubmitted,
}

var projectStepTitles = map[State]string{
	StateProjectInformation: "Project Information",
	StateLandApplication:    "Land Application",
	StateFertilizers:        "Fertilizers & Pesticides",
	StateLandUseChanges:     "Land Use Changes",
	StateFinalisation:       "Project Finalisation",
	StateSubmitted:          "Submitted",
}

// ProjectSubmission is serialized as-is into the project blob, empty fields are left out
type ProjectSubmission struct {
	ProjectName        string `json:"projectName,omitempty" validate:"required"`
	ProjectDescription string `json:"projectDescription,omitempty"`
	ProjectLocation    string `json:"projectLocation,omitempty" validate:"required"`
	VegetationType     string `json:"vegetationType,omitempty"`
	TotalLand          string `json:"totalLand,omitempty" validate:"required,numeric"`
	NumberOfTrees      string `json:"numberOfTrees,omitempty" validate:"omitempty,numeric"`
	AverageHeight      string `json:"averageHeight,omitempty" validate:"omitempty,numeric"`
	DateOfPlanting     string `json:"dateOfPlanting,omitempty" validate:"omitempty,datetime=2006-01-02"`

	FertilizerApplication  string `json:"fertilizerApplication,omitempty"`
	OrganicFertilizer      string `json:"organicFertilizer,omitempty"`
	NitrogenFertilizers    string `json:"nitrogenFertilizers,omitempty"`
	WaterManagement        string `json:"waterManagement,omitempty"`
	GroundwaterManagement  string `json:"groundwaterManagement,omitempty"`
	TillageManagement      string `json:"tillageManagement,omitempty"`
	CropPlanting           string `json:"cropPlanting,omitempty"`
	GrazingPractices       string `json:"grazingPractices,omitempty"`
	CoverCrops             string `json:"coverCrops,omitempty"`
	PartialCoverCrops      string `json:"partialCoverCrops,omitempty"`
	UreaQuantityPerHectare string `json:"ureaQuantityPerHectare,omitempty" validate:"omitempty,numeric"`
	UreaNitrogenContent    string `json:"ureaNitrogenContent,omitempty" validate:"omitempty,numeric"`
	UreaQuantityPerYear    string `json:"ureaQuantityPerYear,omitempty" validate:"omitempty,numeric"`

	Geojson        string `json:"geojson,omitempty"`
	OnboardingDate string `json:"onboardingDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (p ProjectSubmission) Blob() (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// field returns a pointer to the field with the given json name
func (p *ProjectSubmission) field(name string) (*string, bool) {
	fields := map[string]*string{
		"projectName":            &p.ProjectName,
		"projectDescription":     &p.ProjectDescription,
		"projectLocation":        &p.ProjectLocation,
		"vegetationType":         &p.VegetationType,
		"totalLand":              &p.TotalLand,
		"numberOfTrees":          &p.NumberOfTrees,
		"averageHeight":          &p.AverageHeight,
		"dateOfPlanting":         &p.DateOfPlanting,
		"fertilizerApplication":  &p.FertilizerApplication,
		"organicFertilizer":      &p.OrganicFertilizer,
		"nitrogenFertilizers":    &p.NitrogenFertilizers,
		"waterManagement":        &p.WaterManagement,
		"groundwaterManagement":  &p.GroundwaterManagement,
		"tillageManagement":      &p.TillageManagement,
		"cropPlanting":           &p.CropPlanting,
		"grazingPractices":       &p.GrazingPractices,
		"coverCrops":             &p.CoverCrops,
		"partialCoverCrops":      &p.PartialCoverCrops,
		"ureaQuantityPerHectare": &p.UreaQuantityPerHectare,
		"ureaNitrogenContent":    &p.UreaNitrogenContent,
		"ureaQuantityPerYear":    &p.UreaQuantityPerYear,
		"geojson":                &p.Geojson,
		"onboardingDate":         &p.OnboardingDate,
	}
	f, ok := fields[name]
	return f, ok
}

// mapFields may be filled from the embedded map
var mapFields = lib.NewSet(
	"projectLocation",
	"geojson",
	"fertilizerApplication",
	"organicFertilizer",
	"nitrogenFertilizers",
	"waterManagement",
	"groundwaterManagement",
	"tillageManagement",
	"cropPlanting",
	"grazingPractices",
	"coverCrops",
	"partialCoverCrops",
)

type Connection interface {
	Contract() contracts.ContractHandle
	Address() (common.Address, bool)
}

type ProjectSubmitter interface {
	AddProject(ctx context.Context, c contracts.ContractHandle, projectID *big.Int, owner common.Address, dateOfSubmission *big.Int, blob string) (*types.Receipt, error)
}

// Sequence hands out project ids, it only advances after a successful submission
type Sequence struct {
	next atomic.Int64
}

func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.next.Store(start)
	return s
}

func (s *Sequence) Current() int64 {
	return s.next.Load()
}

func (s *Sequence) advance(used int64) {
	s.next.CAS(used, used+1)
}

type StepInfo struct {
	State State  `json:"state"`
	Title string `json:"title"`
}

type ProjectView struct {
	ID        string            `json:"id"`
	State     State             `json:"state"`
	Step      int               `json:"step"`
	Steps     []StepInfo        `json:"steps"`
	Data      ProjectSubmission `json:"data"`
	MapField  string            `json:"mapField,omitempty"`
	Pending   bool              `json:"pending"`
	ProjectID *int64            `json:"projectId,omitempty"`
	TxHash    string            `json:"txHash,omitempty"`
}

type ProjectWizard struct {
	id string

	// state
	machine   *Machine
	data      ProjectSubmission
	mapField  string
	drawing   *geo.Drawing
	projectID *int64
	txHash    common.Hash
	inFlight  atomic.Bool
	mu        sync.Mutex

	// deps
	conn      Connection
	submitter ProjectSubmitter
	ids       *Sequence
	now       func() time.Time
	log       interfaces.ILogger
}

func NewProjectWizard(id string, conn Connection, submitter ProjectSubmitter, ids *Sequence, log interfaces.ILogger) *ProjectWizard {
	w := &ProjectWizard{
		id:        id,
		conn:      conn,
		submitter: submitter,
		ids:       ids,
		now:       time.Now,
		log:       log,
	}
	w.data.OnboardingDate = w.now().Format(dateLayout)
	w.machine = NewMachine(projectSteps, map[State]Guard{
		StateProjectInformation: func() error {
			return checkFields(w.data, "ProjectName", "ProjectLocation", "TotalLand", "NumberOfTrees", "AverageHeight", "DateOfPlanting")
		},
		StateFertilizers: func() error {
			return checkFields(w.data, "UreaQuantityPerHectare", "UreaNitrogenContent", "UreaQuantityPerYear")
		},
		StateFinalisation: func() error {
			return checkFields(w.data, "ProjectLocation", "OnboardingDate")
		},
	})
	return w
}

func (w *ProjectWizard) ID() string {
	return w.id
}

// SetFields updates fields by their json names
func (w *ProjectWizard) SetFields(fields map[string]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.machine.Is(StateSubmitted) {
		return lib.NewKindError(lib.KindInvalidInput, "set fields", ErrAlreadyClosed)
	}

	for name := range fields {
		if _, ok := w.data.field(name); !ok {
			return lib.NewKindError(lib.KindInvalidInput, "set fields", fmt.Errorf("%w: %s", ErrUnknownField, name))
		}
	}
	for name, value := range fields {
		f, _ := w.data.field(name)
		*f = value
	}
	return nil
}

func (w *ProjectWizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.machine.Is(StateFinalisation) || w.machine.Is(StateSubmitted) {
		return invalidState("next", w.machine.State())
	}
	return w.machine.Next()
}

func (w *ProjectWizard) Prev() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.machine.Is(StateSubmitted) {
		return invalidState("prev", w.machine.State())
	}
	w.machine.Prev()
	return nil
}

// ToggleMap opens the map for field, or closes it when it is already open for that field
func (w *ProjectWizard) ToggleMap(field string) error {
	if !mapFields.Contains(field) {
		return lib.NewKindError(lib.KindInvalidInput, "toggle map", fmt.Errorf("%w: %s", ErrNotMapField, field))
	}

	w.mu.Lock()
	if w.mapField == field {
		w.closeMapLocked()
		w.mu.Unlock()
		return nil
	}
	f, _ := w.data.field(field)
	prev := *f
	w.mu.Unlock()

	// the drawing starts from the shapes already saved for the field
	drawing := geo.NewDrawing(func(geojson string) {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.mapField != field {
			return
		}
		f, _ := w.data.field(field)
		*f = geojson
	})
	var loadErr error
	if prev != "" {
		loadErr = drawing.Load(prev)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if loadErr != nil {
		w.log.Warnf("dropping invalid %s map: %s", field, loadErr)
		*f = ""
	}
	w.mapField = field
	w.drawing = drawing
	return nil
}

// Map returns the drawing of the open map
func (w *ProjectWizard) Map() (*geo.Drawing, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.drawing == nil {
		return nil, lib.NewKindError(lib.KindInvalidInput, "map", ErrMapClosed)
	}
	return w.drawing, nil
}

func (w *ProjectWizard) SaveMap() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.drawing == nil {
		return lib.NewKindError(lib.KindInvalidInput, "save map", ErrMapClosed)
	}
	w.closeMapLocked()
	return nil
}

func (w *ProjectWizard) closeMapLocked() {
	w.mapField = ""
	w.drawing = nil
}

// Submit sends the project to the contract. The project id is taken from the sequence and
// the sequence advances only when the transaction succeeds
func (w *ProjectWizard) Submit(ctx context.Context) (*types.Receipt, error) {
	if !w.inFlight.CAS(false, true) {
		return nil, lib.NewKindError(lib.KindInvalidInput, "submit", ErrInFlight)
	}
	defer w.inFlight.Store(false)

	w.mu.Lock()
	if !w.machine.Is(StateFinalisation) {
		state := w.machine.State()
		w.mu.Unlock()
		return nil, invalidState("submit", state)
	}
	if err := w.machine.Check(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	blob, err := w.data.Blob()
	w.mu.Unlock()
	if err != nil {
		return nil, lib.NewKindError(lib.KindInvalidInput, "submit", err)
	}

	owner, ok := w.conn.Address()
	if !ok {
		w.log.Warn("project submission without a connected wallet")
		return nil, lib.NewKindError(lib.KindMissingPrecondition, "submit", ErrNotConnected)
	}

	projectID := w.ids.Current()
	submittedAt := w.now().Unix()

	receipt, err := w.submitter.AddProject(ctx, w.conn.Contract(), big.NewInt(projectID), owner, big.NewInt(submittedAt), blob)
	if err != nil {
		w.log.Errorf("project %d submission failed: %s", projectID, err)
		return nil, err
	}
	w.ids.advance(projectID)

	w.mu.Lock()
	_ = w.machine.MoveTo(StateSubmitted)
	w.projectID = &projectID
	w.txHash = receipt.TxHash
	w.mu.Unlock()

	w.log.Infof("project %d submitted in tx %s", projectID, receipt.TxHash.Hex())
	return receipt, nil
}

func (w *ProjectWizard) View() ProjectView {
	w.mu.Lock()
	defer w.mu.Unlock()

	steps := make([]StepInfo, 0, len(projectSteps))
	for _, s := range projectSteps {
		steps = append(steps, StepInfo{State: s, Title: projectStepTitles[s]})
	}

	view := ProjectView{
		ID:        w.id,
		State:     w.machine.State(),
		Step:      w.machine.Step(),
		Steps:     steps,
		Data:      w.data,
		MapField:  w.mapField,
		Pending:   w.inFlight.Load(),
		ProjectID: w.projectID,
	}
	if w.projectID != nil {
		view.TxHash = w.txHash.Hex()
	}
	return view
}
