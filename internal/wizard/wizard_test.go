package wizard

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/alder-protocol/mrv-dashboard/internal/geo"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/alder-protocol/mrv-dashboard/internal/session"
	"github.com/alder-protocol/mrv-dashboard/mock/contractmock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/require"
)

var testOwner = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

type connMock struct {
	handle    contracts.ContractHandle
	address   common.Address
	connected bool
}

func (c *connMock) Contract() contracts.ContractHandle {
	if !c.connected {
		return nil
	}
	return c.handle
}

func (c *connMock) Address() (common.Address, bool) {
	return c.address, c.connected
}

func connected() *connMock {
	return &connMock{handle: contractmock.NewContractHandleMock(testOwner), address: testOwner, connected: true}
}

type addProjectCall struct {
	projectID, date int64
	owner           common.Address
	blob            string
}

type submitterMock struct {
	AddProjectFunc   func(ctx context.Context) error
	AddMRVReportFunc func(ctx context.Context) error

	projects []addProjectCall
	reports  [][]interface{}
}

func (m *submitterMock) AddProject(ctx context.Context, c contracts.ContractHandle, projectID *big.Int, owner common.Address, date *big.Int, blob string) (*types.Receipt, error) {
	m.projects = append(m.projects, addProjectCall{projectID.Int64(), date.Int64(), owner, blob})
	if m.AddProjectFunc != nil {
		if err := m.AddProjectFunc(ctx); err != nil {
			return nil, err
		}
	}
	return &types.Receipt{TxHash: common.HexToHash("0x01"), Status: types.ReceiptStatusSuccessful}, nil
}

func (m *submitterMock) AddMRVReport(ctx context.Context, c contracts.ContractHandle, reportID *big.Int, projectID *big.Int, owner common.Address, date *big.Int, blob string) (*types.Receipt, error) {
	m.reports = append(m.reports, []interface{}{reportID, projectID, owner, date, blob})
	if m.AddMRVReportFunc != nil {
		if err := m.AddMRVReportFunc(ctx); err != nil {
			return nil, err
		}
	}
	return &types.Receipt{TxHash: common.HexToHash("0x02"), Status: types.ReceiptStatusSuccessful}, nil
}

func TestProjectBlobOmitsEmptyFields(t *testing.T) {
	blob, err := ProjectSubmission{ProjectName: "Test", TotalLand: "5", Geojson: ""}.Blob()
	require.NoError(t, err)
	require.Equal(t, `{"projectName":"Test","totalLand":"5"}`, blob)
}

func TestMachine(t *testing.T) {
	calls := 0
	m := NewMachine([]State{"a", "b"}, map[State]Guard{
		"a": func() error {
			calls++
			if calls == 1 {
				return errors.New("not yet")
			}
			return nil
		},
	})

	m.Prev()
	require.Equal(t, State("a"), m.State())

	err := m.Next()
	require.Equal(t, lib.KindInvalidInput, lib.KindOf(err))
	require.Equal(t, State("a"), m.State())

	require.NoError(t, m.Next())
	require.Equal(t, 2, m.Step())
	require.ErrorIs(t, m.Next(), ErrLastState)

	require.ErrorIs(t, m.MoveTo("zzz"), ErrUnknownState)
}

func fillProjectInformation(t *testing.T, w *ProjectWizard) {
	require.NoError(t, w.SetFields(map[string]string{
		"projectName":     "Test",
		"projectLocation": "Kenya",
		"totalLand":       "5",
	}))
}

func advanceToFinalisation(t *testing.T, w *ProjectWizard) {
	fillProjectInformation(t, w)
	for w.View().State != StateFinalisation {
		require.NoError(t, w.Next())
	}
}

func TestProjectWizardGuards(t *testing.T) {
	w := NewProjectWizard("p1", connected(), &submitterMock{}, NewSequence(0), lib.NewTestLogger())

	err := w.Next()
	require.Error(t, err)
	require.Equal(t, lib.KindInvalidInput, lib.KindOf(err))
	require.Contains(t, err.Error(), "projectName is required")
	require.Equal(t, StateProjectInformation, w.View().State)

	require.NoError(t, w.SetFields(map[string]string{"projectName": "Test", "projectLocation": "Kenya", "totalLand": "five"}))
	err = w.Next()
	require.Error(t, err)
	require.Contains(t, err.Error(), "totalLand must be a number")

	require.NoError(t, w.SetFields(map[string]string{"totalLand": "5"}))
	require.NoError(t, w.Next())
	require.Equal(t, StateLandApplication, w.View().State)

	require.NoError(t, w.Prev())
	require.NoError(t, w.Prev())
	require.Equal(t, StateProjectInformation, w.View().State)

	err = w.SetFields(map[string]string{"unknown": "x"})
	require.ErrorIs(t, err, ErrUnknownField)
}

func TestProjectWizardSubmit(t *testing.T) {
	submitter := &submitterMock{}
	ids := NewSequence(0)
	w := NewProjectWizard("p1", connected(), submitter, ids, lib.NewTestLogger())
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return now }

	_, err := w.Submit(context.Background())
	require.Equal(t, lib.KindInvalidInput, lib.KindOf(err))

	advanceToFinalisation(t, w)
	require.Error(t, w.Next())

	receipt, err := w.Submit(context.Background())
	require.NoError(t, err)
	require.NotNil(t, receipt)

	require.Len(t, submitter.projects, 1)
	call := submitter.projects[0]
	require.Equal(t, int64(0), call.projectID)
	require.Equal(t, now.Unix(), call.date)
	require.Equal(t, testOwner, call.owner)
	require.JSONEq(t, `{"projectName":"Test","projectLocation":"Kenya","totalLand":"5","onboardingDate":"`+time.Now().Format("2006-01-02")+`"}`, call.blob)

	view := w.View()
	require.Equal(t, StateSubmitted, view.State)
	require.Equal(t, int64(0), *view.ProjectID)
	require.Equal(t, int64(1), ids.Current())

	// a second project gets the next id
	w2 := NewProjectWizard("p2", connected(), submitter, ids, lib.NewTestLogger())
	advanceToFinalisation(t, w2)
	_, err = w2.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), submitter.projects[1].projectID)
}

func TestProjectWizardSubmitFailureKeepsID(t *testing.T) {
	submitter := &submitterMock{AddProjectFunc: func(ctx context.Context) error {
		return lib.NewKindError(lib.KindTransactionFailed, "addProject", contracts.ErrTxReverted)
	}}
	ids := NewSequence(0)
	w := NewProjectWizard("p1", connected(), submitter, ids, lib.NewTestLogger())
	advanceToFinalisation(t, w)

	_, err := w.Submit(context.Background())
	require.Equal(t, lib.KindTransactionFailed, lib.KindOf(err))
	require.Equal(t, int64(0), ids.Current())
	require.Equal(t, StateFinalisation, w.View().State)
}

func TestProjectWizardRequiresConnection(t *testing.T) {
	submitter := &submitterMock{}
	w := NewProjectWizard("p1", &connMock{}, submitter, NewSequence(0), lib.NewTestLogger())
	advanceToFinalisation(t, w)

	_, err := w.Submit(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)
	require.Equal(t, lib.KindMissingPrecondition, lib.KindOf(err))
	require.Empty(t, submitter.projects)
}

func TestProjectWizardInFlightGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	submitter := &submitterMock{AddProjectFunc: func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}}
	w := NewProjectWizard("p1", connected(), submitter, NewSequence(0), lib.NewTestLogger())
	advanceToFinalisation(t, w)

	errCh := make(chan error, 1)
	go func() {
		_, err := w.Submit(context.Background())
		errCh <- err
	}()
	<-started

	require.True(t, w.View().Pending)
	_, err := w.Submit(context.Background())
	require.ErrorIs(t, err, ErrInFlight)

	close(release)
	require.NoError(t, <-errCh)
	require.Len(t, submitter.projects, 1)
}

func TestProjectWizardMap(t *testing.T) {
	w := NewProjectWizard("p1", connected(), &submitterMock{}, NewSequence(0), lib.NewTestLogger())

	require.ErrorIs(t, w.ToggleMap("projectName"), ErrNotMapField)
	_, err := w.Map()
	require.ErrorIs(t, err, ErrMapClosed)

	require.NoError(t, w.ToggleMap("projectLocation"))
	require.Equal(t, "projectLocation", w.View().MapField)

	drawing, err := w.Map()
	require.NoError(t, err)
	_, err = drawing.Create(geojson.NewFeature(orb.Point{36.8, -1.3}))
	require.NoError(t, err)

	location := w.View().Data.ProjectLocation
	require.Contains(t, location, `"FeatureCollection"`)

	require.NoError(t, w.SaveMap())
	require.Empty(t, w.View().MapField)
	require.Equal(t, location, w.View().Data.ProjectLocation)

	require.NoError(t, w.ToggleMap("coverCrops"))
	require.NoError(t, w.ToggleMap("coverCrops"))
	require.Empty(t, w.View().MapField)
}

func TestProjectWizardMapReopensSavedShapes(t *testing.T) {
	w := NewProjectWizard("p1", connected(), &submitterMock{}, NewSequence(0), lib.NewTestLogger())

	require.NoError(t, w.ToggleMap("projectLocation"))
	drawing, err := w.Map()
	require.NoError(t, err)
	_, err = drawing.Create(geojson.NewFeature(orb.Point{36.8, -1.3}))
	require.NoError(t, err)
	require.NoError(t, w.SaveMap())

	require.NoError(t, w.ToggleMap("projectLocation"))
	drawing, err = w.Map()
	require.NoError(t, err)
	require.Equal(t, 1, drawing.Len())

	_, err = drawing.Create(geojson.NewFeature(orb.Point{36.9, -1.2}))
	require.NoError(t, err)
	require.NoError(t, w.SaveMap())

	fc, err := geo.ParseFeatureCollection(w.View().Data.ProjectLocation)
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)
}

func TestProjectWizardMapDropsInvalidSavedShapes(t *testing.T) {
	w := NewProjectWizard("p1", connected(), &submitterMock{}, NewSequence(0), lib.NewTestLogger())
	w.data.CoverCrops = "not geojson"

	require.NoError(t, w.ToggleMap("coverCrops"))
	drawing, err := w.Map()
	require.NoError(t, err)
	require.Equal(t, 0, drawing.Len())
	require.Empty(t, w.View().Data.CoverCrops)
}

func drawArea(t *testing.T, w *MRVWizard) {
	drawing, err := w.OpenMap()
	require.NoError(t, err)
	_, err = drawing.Create(geojson.NewFeature(orb.Polygon{orb.Ring{{0, 0}, {0.01, 0}, {0.01, 0.01}, {0, 0.01}, {0, 0}}}))
	require.NoError(t, err)
	require.NoError(t, w.SaveMap())
}

func TestMRVWizardFlow(t *testing.T) {
	submitter := &submitterMock{}
	w := NewMRVWizard("m1", connected(), submitter, nil, lib.NewTestLogger())
	w.reportIDs = func() (int64, error) { return 42, nil }

	_, err := w.Start(context.Background())
	require.ErrorIs(t, err, ErrEmptyArea)

	_, err = w.OpenMap()
	require.NoError(t, err)
	require.Equal(t, StateDrawMap, w.View().State)
	require.ErrorIs(t, w.SaveMap(), ErrEmptyArea)
	require.Equal(t, StateDrawMap, w.View().State)

	drawing, err := w.Map()
	require.NoError(t, err)
	_, err = drawing.Create(geojson.NewFeature(orb.Point{1, 1}))
	require.NoError(t, err)
	require.NoError(t, w.SaveMap())
	require.Equal(t, StateSelectArea, w.View().State)

	value, err := w.Start(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(DefaultEstimateTCO2), value)
	require.Equal(t, StateReadyToMint, w.View().State)

	_, err = w.Mint(context.Background())
	require.Equal(t, lib.KindInvalidInput, lib.KindOf(err))
	require.Empty(t, submitter.reports)

	require.NoError(t, w.SetProjectID("7"))
	receipt, err := w.Mint(context.Background())
	require.NoError(t, err)
	require.NotNil(t, receipt)

	require.Len(t, submitter.reports, 1)
	args := submitter.reports[0]
	require.Equal(t, int64(42), args[0].(*big.Int).Int64())
	require.Equal(t, int64(7), args[1].(*big.Int).Int64())
	require.Equal(t, testOwner, args[2])
	require.Equal(t, w.View().Data.Geojson, args[4])

	view := w.View()
	require.Equal(t, StateMinted, view.State)
	require.Equal(t, int64(42), *view.ReportID)
}

func TestMRVWizardMintRequiresConnection(t *testing.T) {
	submitter := &submitterMock{}
	w := NewMRVWizard("m1", &connMock{}, submitter, FixedEstimator{Value: 10}, lib.NewTestLogger())
	drawArea(t, w)
	require.Greater(t, w.View().AreaHa, 100.0)

	_, err := w.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, w.SetProjectID("1"))

	_, err = w.Mint(context.Background())
	require.Equal(t, lib.KindMissingPrecondition, lib.KindOf(err))
	require.Empty(t, submitter.reports)
	require.Equal(t, StateReadyToMint, w.View().State)
}

func TestMRVWizardRejectsNegativeProjectID(t *testing.T) {
	submitter := &submitterMock{}
	w := NewMRVWizard("m1", connected(), submitter, FixedEstimator{Value: 10}, lib.NewTestLogger())
	drawArea(t, w)

	_, err := w.Start(context.Background())
	require.NoError(t, err)

	for _, id := range []string{"-5", "1.5", "+3"} {
		require.NoError(t, w.SetProjectID(id))
		_, err = w.Mint(context.Background())
		require.Equal(t, lib.KindInvalidInput, lib.KindOf(err), id)
	}
	require.Empty(t, submitter.reports)
	require.Equal(t, StateReadyToMint, w.View().State)
}

func TestMRVWizardEstimatorCancelled(t *testing.T) {
	w := NewMRVWizard("m1", connected(), &submitterMock{}, FixedEstimator{Value: 10, Delay: time.Hour}, lib.NewTestLogger())
	drawArea(t, w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Start(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StateSelectArea, w.View().State)
}

func TestRandomReportID(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := randomReportID()
		require.NoError(t, err)
		require.GreaterOrEqual(t, id, int64(0))
		require.Less(t, id, int64(maxReportID))
	}
}

type roleSelectorMock struct {
	selected []session.Role
}

func (m *roleSelectorMock) SelectRole(ctx context.Context, role session.Role) error {
	m.selected = append(m.selected, role)
	return nil
}

func TestWelcome(t *testing.T) {
	roles := &roleSelectorMock{}
	w := NewWelcome(roles)

	_, err := w.Submit(context.Background())
	require.ErrorIs(t, err, ErrRoleNotSelected)
	require.Empty(t, roles.selected)

	w.Choose("admin")
	_, err = w.Submit(context.Background())
	require.ErrorIs(t, err, session.ErrUnknownRole)

	w.Choose("farmer")
	path, err := w.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/farmer-profile", path)
	require.Equal(t, []session.Role{session.RoleFarmer}, roles.selected)
	require.Equal(t, StateRoleSubmitted, w.State())

	w.Choose("vvb")
	path, err = w.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, "/vvb-profile", path)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[*Welcome]()
	id1, _ := r.Add(func(id string) *Welcome { return NewWelcome(&roleSelectorMock{}) })
	id2, _ := r.Add(func(id string) *Welcome { return NewWelcome(&roleSelectorMock{}) })

	require.Equal(t, 2, r.Len())
	_, ok := r.Get(id1)
	require.True(t, ok)

	ids := r.IDs()
	require.ElementsMatch(t, []string{id1, id2}, ids)

	r.Delete(id1)
	_, ok = r.Get(id1)
	require.False(t, ok)
}
