package services

import (
	"context"
	"math/big"

	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Token

func (s *Service) MintACDR(ctx context.Context, c contracts.ContractHandle, amount *big.Int) (*types.Receipt, error) {
	return transact(ctx, s, c, "mintACDR", amount)
}

func (s *Service) Retire(ctx context.Context, c contracts.ContractHandle, amount *big.Int) (*types.Receipt, error) {
	return transact(ctx, s, c, "retire", amount)
}

func (s *Service) SetFarmerACDR(ctx context.Context, c contracts.ContractHandle, farmer common.Address, amount *big.Int) (*types.Receipt, error) {
	return transact(ctx, s, c, "setFarmerACDR", farmer, amount)
}

// Registry

func (s *Service) AddFarmer(ctx context.Context, c contracts.ContractHandle, farmer common.Address, farmerID *big.Int) (*types.Receipt, error) {
	return transact(ctx, s, c, "addFarmer", farmer, farmerID)
}

func (s *Service) RemoveFarmer(ctx context.Context, c contracts.ContractHandle, farmer common.Address) (*types.Receipt, error) {
	return transact(ctx, s, c, "removeFarmer", farmer)
}

func (s *Service) AddVVB(ctx context.Context, c contracts.ContractHandle, vvb common.Address, vvbID *big.Int) (*types.Receipt, error) {
	return transact(ctx, s, c, "addVVB", vvb, vvbID)
}

func (s *Service) RemoveVVB(ctx context.Context, c contracts.ContractHandle, vvb common.Address) (*types.Receipt, error) {
	return transact(ctx, s, c, "removeVVB", vvb)
}

// Projects and MRV reports

func (s *Service) AssignVVBToProject(ctx context.Context, c contracts.ContractHandle, projectID *big.Int, vvb common.Address) (*types.Receipt, error) {
	return transact(ctx, s, c, "assignVVBToProject", projectID, vvb)
}

func (s *Service) AssignVVBToMRV(ctx context.Context, c contracts.ContractHandle, reportID *big.Int, vvb common.Address) (*types.Receipt, error) {
	return transact(ctx, s, c, "assignVVBToMRV", reportID, vvb)
}

func (s *Service) AcceptProject(ctx context.Context, c contracts.ContractHandle, projectID *big.Int) (*types.Receipt, error) {
	return transact(ctx, s, c, "acceptProject", projectID)
}

func (s *Service) RejectProject(ctx context.Context, c contracts.ContractHandle, projectID *big.Int) (*types.Receipt, error) {
	return transact(ctx, s, c, "rejectProject", projectID)
}

// AddProject submits the project blob, dateOfSubmission is a unix timestamp in seconds
func (s *Service) AddProject(ctx context.Context, c contracts.ContractHandle, projectID *big.Int, owner common.Address, dateOfSubmission *big.Int, blob string) (*types.Receipt, error) {
	return transact(ctx, s, c, "addProject", projectID, owner, dateOfSubmission, []byte(blob))
}

func (s *Service) RemoveProject(ctx context.Context, c contracts.ContractHandle, projectID *big.Int) (*types.Receipt, error) {
	return transact(ctx, s, c, "removeProject", projectID)
}

func (s *Service) AddMRVReport(ctx context.Context, c contracts.ContractHandle, reportID *big.Int, projectID *big.Int, owner common.Address, date *big.Int, blob string) (*types.Receipt, error) {
	return transact(ctx, s, c, "addMRVReport", reportID, projectID, owner, date, []byte(blob))
}

func (s *Service) RemoveMRVReport(ctx context.Context, c contracts.ContractHandle, reportID *big.Int) (*types.Receipt, error) {
	return transact(ctx, s, c, "removeMRVReport", reportID)
}

// Getters

func (s *Service) GetFarmerBalance(ctx context.Context, c contracts.ContractHandle, farmer common.Address) (*big.Int, error) {
	return call[*big.Int](ctx, s, c, "getFarmerBalance", farmer)
}

func (s *Service) GetFarmer(ctx context.Context, c contracts.ContractHandle, farmer common.Address) (contracts.FarmerDetails, error) {
	return call[contracts.FarmerDetails](ctx, s, c, "getFarmer", farmer)
}

func (s *Service) GetVVB(ctx context.Context, c contracts.ContractHandle, vvb common.Address) (contracts.VVBDetails, error) {
	return call[contracts.VVBDetails](ctx, s, c, "getVVB", vvb)
}

func (s *Service) GetFarmerContribution(ctx context.Context, c contracts.ContractHandle, farmer common.Address) (*big.Int, error) {
	return call[*big.Int](ctx, s, c, "getFarmerContribution", farmer)
}

func (s *Service) GetFarmerContributionPercentage(ctx context.Context, c contracts.ContractHandle, farmer common.Address) (*big.Int, error) {
	return call[*big.Int](ctx, s, c, "getFarmerContributionPercentage", farmer)
}

func (s *Service) GetTotalPool(ctx context.Context, c contracts.ContractHandle) (*big.Int, error) {
	return call[*big.Int](ctx, s, c, "getTotalPool")
}

func (s *Service) GetProjectDetails(ctx context.Context, c contracts.ContractHandle, projectID *big.Int) (contracts.ProjectDetails, error) {
	return call[contracts.ProjectDetails](ctx, s, c, "getProjectDetails", projectID)
}

func (s *Service) GetMRVReportDetails(ctx context.Context, c contracts.ContractHandle, reportID *big.Int) (contracts.MRVReportDetails, error) {
	return call[contracts.MRVReportDetails](ctx, s, c, "getMRVReportDetails", reportID)
}
