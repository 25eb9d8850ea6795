package httphandlers

import (
	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/alder-protocol/mrv-dashboard/internal/routing"
	"github.com/alder-protocol/mrv-dashboard/internal/session"
)

type ConfigResponse struct {
	Version string
	Config  interface{}
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type Resource struct {
	Self string `json:"self"`
}

type SessionResponse struct {
	session.Snapshot
	Contract string `json:"contract,omitempty"`
}

type SelectRoleRequest struct {
	Role string `json:"role"`
}

type AccountsChangedRequest struct {
	Accounts []string `json:"accounts" binding:"dive,eth_addr"`
}

type SelectAccountRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

type WalletResponse struct {
	Accounts []string `json:"accounts"`
}

type RouteResponse struct {
	routing.Resolution
	Role string `json:"role"`
}

type WelcomeResponse struct {
	Role     string `json:"role"`
	State    string `json:"state"`
	Redirect string `json:"redirect,omitempty"`
}

type TxResponse struct {
	Method      string `json:"method"`
	TxHash      string `json:"txHash"`
	BlockNumber string `json:"blockNumber"`
	Status      uint64 `json:"status"`
	GasUsed     uint64 `json:"gasUsed"`
}

type AmountRequest struct {
	Amount string `json:"amount" binding:"required,number"`
}

type MemberRequest struct {
	Address string `json:"address" binding:"required,eth_addr"`
	ID      string `json:"id"      binding:"required,number"`
}

type VVBAssignRequest struct {
	VVB string `json:"vvb" binding:"required,eth_addr"`
}

type AddProjectRequest struct {
	ProjectID        string `json:"projectId"        binding:"required,number"`
	Owner            string `json:"owner"            binding:"required,eth_addr"`
	DateOfSubmission string `json:"dateOfSubmission" binding:"required,number"`
	Blob             string `json:"blob"`
}

type AddMRVReportRequest struct {
	ReportID  string `json:"reportId"  binding:"required,number"`
	ProjectID string `json:"projectId" binding:"required,number"`
	Owner     string `json:"owner"     binding:"required,eth_addr"`
	Date      string `json:"date"      binding:"required,number"`
	Blob      string `json:"blob"`
}

type ValueResponse struct {
	Value string `json:"value"`
}

type FarmerProfileResponse struct {
	Resource
	Address                string                     `json:"address"`
	Farmer                 contracts.FarmerDetails    `json:"farmer"`
	Balance                string                     `json:"balance"`
	Contribution           string                     `json:"contribution"`
	ContributionPercentage string                     `json:"contributionPercentage"`
	TotalPool              string                     `json:"totalPool"`
	Activity               []*contracts.ContractEvent `json:"activity"`
}

type VVBProfileResponse struct {
	Resource
	Address  string                     `json:"address"`
	VVB      contracts.VVBDetails       `json:"vvb"`
	Activity []*contracts.ContractEvent `json:"activity"`
}

type ProjectDetailsResponse struct {
	contracts.ProjectDetails
	StatusName string `json:"statusName"`
	BlobText   string `json:"blobText"`
}

type MRVReportDetailsResponse struct {
	contracts.MRVReportDetails
	BlobText string `json:"blobText"`
}

type SetFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

type ToggleMapRequest struct {
	Field string `json:"field" binding:"required"`
}

type SetProjectIDRequest struct {
	ProjectID string `json:"projectId" binding:"required,number"`
}

type LoadMapRequest struct {
	GeoJSON string `json:"geojson" binding:"required"`
}

type FeatureResponse struct {
	ID      string `json:"id"`
	GeoJSON string `json:"geojson"`
}

type EstimateResponse struct {
	EstimatedTCO2 int64 `json:"estimatedTCO2"`
}

type WizardListResponse struct {
	IDs []string `json:"ids"`
}

type EventsResponse struct {
	Total  int                        `json:"total"`
	Events []*contracts.ContractEvent `json:"events"`
}
