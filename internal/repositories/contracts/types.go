package contracts

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Field order and names of the details structs mirror the tuple components of the
// contract getters, abi.ConvertType relies on it

type FarmerDetails struct {
	FarmerAddress common.Address `json:"farmerAddress"`
	FarmerId      *big.Int       `json:"farmerId"`
	Balance       *big.Int       `json:"balance"`
	Contribution  *big.Int       `json:"contribution"`
}

type VVBDetails struct {
	VvbAddress common.Address `json:"vvbAddress"`
	VvbId      *big.Int       `json:"vvbId"`
}

type ProjectStatus uint8

const (
	ProjectStatusPending ProjectStatus = iota
	ProjectStatusAccepted
	ProjectStatusRejected
)

func (s ProjectStatus) String() string {
	switch s {
	case ProjectStatusPending:
		return "pending"
	case ProjectStatusAccepted:
		return "accepted"
	case ProjectStatusRejected:
		return "rejected"
	}
	return "unknown"
}

type ProjectDetails struct {
	ProjectId        *big.Int       `json:"projectId"`
	Owner            common.Address `json:"owner"`
	DateOfSubmission *big.Int       `json:"dateOfSubmission"`
	Blob             []byte         `json:"blob"`
	Vvb              common.Address `json:"vvb"`
	Status           uint8          `json:"status"`
}

type MRVReportDetails struct {
	ReportId  *big.Int       `json:"reportId"`
	ProjectId *big.Int       `json:"projectId"`
	Owner     common.Address `json:"owner"`
	Date      *big.Int       `json:"date"`
	Blob      []byte         `json:"blob"`
	Vvb       common.Address `json:"vvb"`
}

// Events

type AlderFarmerAdded struct {
	Farmer   common.Address
	FarmerId *big.Int
}

type AlderFarmerRemoved struct {
	Farmer common.Address
}

type AlderVVBAdded struct {
	Vvb   common.Address
	VvbId *big.Int
}

type AlderVVBRemoved struct {
	Vvb common.Address
}

type AlderProjectAdded struct {
	ProjectId *big.Int
	Owner     common.Address
}

type AlderProjectAccepted struct {
	ProjectId *big.Int
}

type AlderProjectRejected struct {
	ProjectId *big.Int
}

type AlderMRVReportAdded struct {
	ReportId  *big.Int
	ProjectId *big.Int
	Owner     common.Address
}

type AlderACDRMinted struct {
	To     common.Address
	Amount *big.Int
}

type AlderACDRRetired struct {
	From   common.Address
	Amount *big.Int
}
