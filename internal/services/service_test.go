package services

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/alder-protocol/mrv-dashboard/mock/contractmock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

var (
	testOwner = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	testVVB   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
)

type op struct {
	name string
	run  func(s *Service, c contracts.ContractHandle) (interface{}, error)
}

func allOps() []op {
	ctx := context.Background()
	one := big.NewInt(1)
	return []op{
		{"mintACDR", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.MintACDR(ctx, c, one) }},
		{"retire", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.Retire(ctx, c, one) }},
		{"setFarmerACDR", func(s *Service, c contracts.ContractHandle) (interface{}, error) {
			return s.SetFarmerACDR(ctx, c, testOwner, one)
		}},
		{"addFarmer", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.AddFarmer(ctx, c, testOwner, one) }},
		{"removeFarmer", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.RemoveFarmer(ctx, c, testOwner) }},
		{"addVVB", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.AddVVB(ctx, c, testVVB, one) }},
		{"removeVVB", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.RemoveVVB(ctx, c, testVVB) }},
		{"assignVVBToProject", func(s *Service, c contracts.ContractHandle) (interface{}, error) {
			return s.AssignVVBToProject(ctx, c, one, testVVB)
		}},
		{"assignVVBToMRV", func(s *Service, c contracts.ContractHandle) (interface{}, error) {
			return s.AssignVVBToMRV(ctx, c, one, testVVB)
		}},
		{"acceptProject", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.AcceptProject(ctx, c, one) }},
		{"rejectProject", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.RejectProject(ctx, c, one) }},
		{"addProject", func(s *Service, c contracts.ContractHandle) (interface{}, error) {
			return s.AddProject(ctx, c, one, testOwner, one, "{}")
		}},
		{"removeProject", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.RemoveProject(ctx, c, one) }},
		{"addMRVReport", func(s *Service, c contracts.ContractHandle) (interface{}, error) {
			return s.AddMRVReport(ctx, c, one, one, testOwner, one, "{}")
		}},
		{"removeMRVReport", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.RemoveMRVReport(ctx, c, one) }},
		{"getFarmerBalance", func(s *Service, c contracts.ContractHandle) (interface{}, error) {
			return s.GetFarmerBalance(ctx, c, testOwner)
		}},
		{"getFarmer", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.GetFarmer(ctx, c, testOwner) }},
		{"getVVB", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.GetVVB(ctx, c, testVVB) }},
		{"getFarmerContribution", func(s *Service, c contracts.ContractHandle) (interface{}, error) {
			return s.GetFarmerContribution(ctx, c, testOwner)
		}},
		{"getFarmerContributionPercentage", func(s *Service, c contracts.ContractHandle) (interface{}, error) {
			return s.GetFarmerContributionPercentage(ctx, c, testOwner)
		}},
		{"getTotalPool", func(s *Service, c contracts.ContractHandle) (interface{}, error) { return s.GetTotalPool(ctx, c) }},
		{"getProjectDetails", func(s *Service, c contracts.ContractHandle) (interface{}, error) {
			return s.GetProjectDetails(ctx, c, one)
		}},
		{"getMRVReportDetails", func(s *Service, c contracts.ContractHandle) (interface{}, error) {
			return s.GetMRVReportDetails(ctx, c, one)
		}},
	}
}

func TestNilHandleShortCircuits(t *testing.T) {
	s := NewService(lib.NewTestLogger())
	var typedNil *contracts.Alder

	for _, o := range allOps() {
		t.Run(o.name, func(t *testing.T) {
			_, err := o.run(s, nil)
			require.ErrorIs(t, err, ErrNoContract)
			require.Equal(t, lib.KindMissingPrecondition, lib.KindOf(err))

			_, err = o.run(s, typedNil)
			require.Equal(t, lib.KindMissingPrecondition, lib.KindOf(err))
		})
	}
}

func TestEveryOpReachesContractMethod(t *testing.T) {
	s := NewService(lib.NewTestLogger())

	for _, o := range allOps() {
		t.Run(o.name, func(t *testing.T) {
			handle := contractmock.NewContractHandleMock(testOwner)
			_, _ = o.run(s, handle)

			require.Equal(t, 1, handle.TotalCalls())
			calls := append(handle.Transacts(), handle.Calls()...)
			require.Equal(t, o.name, calls[0].Method)
		})
	}
}

func TestRevertReturnsZeroValue(t *testing.T) {
	s := NewService(lib.NewTestLogger())
	reverted := fmt.Errorf("%w: execution reverted", contracts.ErrTxReverted)

	for _, o := range allOps() {
		t.Run(o.name, func(t *testing.T) {
			handle := contractmock.NewContractHandleMock(testOwner)
			handle.TransactFunc = func(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
				return &types.Receipt{Status: types.ReceiptStatusFailed}, reverted
			}
			handle.CallFunc = func(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
				return nil, reverted
			}

			var (
				res interface{}
				err error
			)
			require.NotPanics(t, func() { res, err = o.run(s, handle) })
			require.ErrorIs(t, err, contracts.ErrTxReverted)
			require.Equal(t, lib.KindTransactionFailed, lib.KindOf(err))

			switch v := res.(type) {
			case *types.Receipt:
				require.Nil(t, v)
			case *big.Int:
				require.Nil(t, v)
			case contracts.FarmerDetails:
				require.Equal(t, contracts.FarmerDetails{}, v)
			case contracts.VVBDetails:
				require.Equal(t, contracts.VVBDetails{}, v)
			case contracts.ProjectDetails:
				require.Equal(t, contracts.ProjectDetails{}, v)
			case contracts.MRVReportDetails:
				require.Equal(t, contracts.MRVReportDetails{}, v)
			default:
				t.Fatalf("unexpected result type %T", res)
			}
		})
	}
}

func TestExistingKindIsKept(t *testing.T) {
	s := NewService(lib.NewTestLogger())
	handle := contractmock.NewContractHandleMock(testOwner)
	handle.TransactFunc = func(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
		return nil, lib.NewKindError(lib.KindConnectionRejected, "sign", errors.New("user denied"))
	}

	_, err := s.MintACDR(context.Background(), handle, big.NewInt(1))
	require.Equal(t, lib.KindConnectionRejected, lib.KindOf(err))
}

func TestAddProjectSendsBlobBytes(t *testing.T) {
	s := NewService(lib.NewTestLogger())
	handle := contractmock.NewContractHandleMock(testOwner)

	receipt, err := s.AddProject(context.Background(), handle, big.NewInt(0), testOwner, big.NewInt(1700000000), `{"projectName":"Test"}`)
	require.NoError(t, err)
	require.NotNil(t, receipt)

	args := handle.Transacts()[0].Args
	require.Len(t, args, 4)
	require.Equal(t, testOwner, args[1])
	require.Equal(t, []byte(`{"projectName":"Test"}`), args[3])
}

func TestGetFarmerDecodesTuple(t *testing.T) {
	s := NewService(lib.NewTestLogger())
	handle := contractmock.NewContractHandleMock(testOwner)
	handle.CallFunc = func(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
		// shape produced by the abi decoder for tuple outputs
		return []interface{}{struct {
			FarmerAddress common.Address `json:"farmerAddress"`
			FarmerId      *big.Int       `json:"farmerId"`
			Balance       *big.Int       `json:"balance"`
			Contribution  *big.Int       `json:"contribution"`
		}{testOwner, big.NewInt(4), big.NewInt(10), big.NewInt(3)}}, nil
	}

	farmer, err := s.GetFarmer(context.Background(), handle, testOwner)
	require.NoError(t, err)
	require.Equal(t, testOwner, farmer.FarmerAddress)
	require.Equal(t, int64(4), farmer.FarmerId.Int64())
	require.Equal(t, int64(3), farmer.Contribution.Int64())
}

func TestGetTotalPool(t *testing.T) {
	s := NewService(lib.NewTestLogger())
	handle := contractmock.NewContractHandleMock(testOwner)
	handle.CallFunc = func(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
		return []interface{}{big.NewInt(1234)}, nil
	}

	pool, err := s.GetTotalPool(context.Background(), handle)
	require.NoError(t, err)
	require.Equal(t, int64(1234), pool.Int64())
}

func TestDecodeMismatchDoesNotPanic(t *testing.T) {
	s := NewService(lib.NewTestLogger())
	handle := contractmock.NewContractHandleMock(testOwner)
	handle.CallFunc = func(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
		return []interface{}{"garbage"}, nil
	}

	require.NotPanics(t, func() {
		_, err := s.GetProjectDetails(context.Background(), handle, big.NewInt(1))
		require.ErrorIs(t, err, ErrDecode)
		require.Equal(t, lib.KindTransactionFailed, lib.KindOf(err))
	})

	handle.CallFunc = func(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
		return nil, nil
	}
	_, err := s.GetTotalPool(context.Background(), handle)
	require.ErrorIs(t, err, ErrEmptyResult)
}
