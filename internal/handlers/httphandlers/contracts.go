package httphandlers

import (
	"math/big"
	"net/http"

	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) respondTx(ctx *gin.Context, method string, receipt *types.Receipt, err error) {
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, TxResponse{
		Method:      method,
		TxHash:      receipt.TxHash.Hex(),
		BlockNumber: bigString(receipt.BlockNumber),
		Status:      receipt.Status,
		GasUsed:     receipt.GasUsed,
	})
}

func (h *HTTPHandler) respondValue(ctx *gin.Context, v *big.Int, err error) {
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ValueResponse{Value: bigString(v)})
}

func (h *HTTPHandler) bindAmount(ctx *gin.Context) (*big.Int, bool) {
	var req AmountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return nil, false
	}
	amount, err := parseBig(req.Amount)
	if err != nil {
		h.badRequest(ctx, err)
		return nil, false
	}
	return amount, true
}

func (h *HTTPHandler) addressParam(ctx *gin.Context) (common.Address, bool) {
	addr, err := parseAddr(ctx.Param("address"))
	if err != nil {
		h.badRequest(ctx, err)
		return common.Address{}, false
	}
	return addr, true
}

func (h *HTTPHandler) idParam(ctx *gin.Context) (*big.Int, bool) {
	id, err := parseBig(ctx.Param("id"))
	if err != nil {
		h.badRequest(ctx, err)
		return nil, false
	}
	return id, true
}

func (h *HTTPHandler) bindMember(ctx *gin.Context) (common.Address, *big.Int, bool) {
	var req MemberRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return common.Address{}, nil, false
	}
	id, err := parseBig(req.ID)
	if err != nil {
		h.badRequest(ctx, err)
		return common.Address{}, nil, false
	}
	return common.HexToAddress(req.Address), id, true
}

func (h *HTTPHandler) bindVVB(ctx *gin.Context) (common.Address, bool) {
	var req VVBAssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return common.Address{}, false
	}
	return common.HexToAddress(req.VVB), true
}

// Token

func (h *HTTPHandler) MintACDR(ctx *gin.Context) {
	amount, ok := h.bindAmount(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.MintACDR(ctx, h.session.Contract(), amount)
	h.respondTx(ctx, "mintACDR", receipt, err)
}

func (h *HTTPHandler) Retire(ctx *gin.Context) {
	amount, ok := h.bindAmount(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.Retire(ctx, h.session.Contract(), amount)
	h.respondTx(ctx, "retire", receipt, err)
}

func (h *HTTPHandler) GetTotalPool(ctx *gin.Context) {
	v, err := h.service.GetTotalPool(ctx, h.session.Contract())
	h.respondValue(ctx, v, err)
}

// Farmers

func (h *HTTPHandler) AddFarmer(ctx *gin.Context) {
	farmer, id, ok := h.bindMember(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.AddFarmer(ctx, h.session.Contract(), farmer, id)
	h.respondTx(ctx, "addFarmer", receipt, err)
}

func (h *HTTPHandler) RemoveFarmer(ctx *gin.Context) {
	farmer, ok := h.addressParam(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.RemoveFarmer(ctx, h.session.Contract(), farmer)
	h.respondTx(ctx, "removeFarmer", receipt, err)
}

func (h *HTTPHandler) SetFarmerACDR(ctx *gin.Context) {
	farmer, ok := h.addressParam(ctx)
	if !ok {
		return
	}
	amount, ok := h.bindAmount(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.SetFarmerACDR(ctx, h.session.Contract(), farmer, amount)
	h.respondTx(ctx, "setFarmerACDR", receipt, err)
}

func (h *HTTPHandler) GetFarmer(ctx *gin.Context) {
	farmer, ok := h.addressParam(ctx)
	if !ok {
		return
	}
	details, err := h.service.GetFarmer(ctx, h.session.Contract(), farmer)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, details)
}

func (h *HTTPHandler) GetFarmerBalance(ctx *gin.Context) {
	farmer, ok := h.addressParam(ctx)
	if !ok {
		return
	}
	v, err := h.service.GetFarmerBalance(ctx, h.session.Contract(), farmer)
	h.respondValue(ctx, v, err)
}

func (h *HTTPHandler) GetFarmerContribution(ctx *gin.Context) {
	farmer, ok := h.addressParam(ctx)
	if !ok {
		return
	}
	if ctx.Query("percentage") == "true" {
		v, err := h.service.GetFarmerContributionPercentage(ctx, h.session.Contract(), farmer)
		h.respondValue(ctx, v, err)
		return
	}
	v, err := h.service.GetFarmerContribution(ctx, h.session.Contract(), farmer)
	h.respondValue(ctx, v, err)
}

// VVBs

func (h *HTTPHandler) AddVVB(ctx *gin.Context) {
	vvb, id, ok := h.bindMember(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.AddVVB(ctx, h.session.Contract(), vvb, id)
	h.respondTx(ctx, "addVVB", receipt, err)
}

func (h *HTTPHandler) RemoveVVB(ctx *gin.Context) {
	vvb, ok := h.addressParam(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.RemoveVVB(ctx, h.session.Contract(), vvb)
	h.respondTx(ctx, "removeVVB", receipt, err)
}

func (h *HTTPHandler) GetVVB(ctx *gin.Context) {
	vvb, ok := h.addressParam(ctx)
	if !ok {
		return
	}
	details, err := h.service.GetVVB(ctx, h.session.Contract(), vvb)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, details)
}

// Projects

func (h *HTTPHandler) AddProject(ctx *gin.Context) {
	var req AddProjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}
	projectID, err := parseBig(req.ProjectID)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}
	date, err := parseBig(req.DateOfSubmission)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}
	receipt, err := h.service.AddProject(ctx, h.session.Contract(), projectID, common.HexToAddress(req.Owner), date, req.Blob)
	h.respondTx(ctx, "addProject", receipt, err)
}

func (h *HTTPHandler) GetProjectDetails(ctx *gin.Context) {
	id, ok := h.idParam(ctx)
	if !ok {
		return
	}
	details, err := h.service.GetProjectDetails(ctx, h.session.Contract(), id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, ProjectDetailsResponse{
		ProjectDetails: details,
		StatusName:     contracts.ProjectStatus(details.Status).String(),
		BlobText:       string(details.Blob),
	})
}

func (h *HTTPHandler) RemoveProject(ctx *gin.Context) {
	id, ok := h.idParam(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.RemoveProject(ctx, h.session.Contract(), id)
	h.respondTx(ctx, "removeProject", receipt, err)
}

func (h *HTTPHandler) AcceptProject(ctx *gin.Context) {
	id, ok := h.idParam(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.AcceptProject(ctx, h.session.Contract(), id)
	h.respondTx(ctx, "acceptProject", receipt, err)
}

func (h *HTTPHandler) RejectProject(ctx *gin.Context) {
	id, ok := h.idParam(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.RejectProject(ctx, h.session.Contract(), id)
	h.respondTx(ctx, "rejectProject", receipt, err)
}

func (h *HTTPHandler) AssignVVBToProject(ctx *gin.Context) {
	id, ok := h.idParam(ctx)
	if !ok {
		return
	}
	vvb, ok := h.bindVVB(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.AssignVVBToProject(ctx, h.session.Contract(), id, vvb)
	h.respondTx(ctx, "assignVVBToProject", receipt, err)
}

// MRV reports

func (h *HTTPHandler) AddMRVReport(ctx *gin.Context) {
	var req AddMRVReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}
	ids := make([]*big.Int, 3)
	for i, s := range []string{req.ReportID, req.ProjectID, req.Date} {
		v, err := parseBig(s)
		if err != nil {
			h.badRequest(ctx, err)
			return
		}
		ids[i] = v
	}
	receipt, err := h.service.AddMRVReport(ctx, h.session.Contract(), ids[0], ids[1], common.HexToAddress(req.Owner), ids[2], req.Blob)
	h.respondTx(ctx, "addMRVReport", receipt, err)
}

func (h *HTTPHandler) GetMRVReportDetails(ctx *gin.Context) {
	id, ok := h.idParam(ctx)
	if !ok {
		return
	}
	details, err := h.service.GetMRVReportDetails(ctx, h.session.Contract(), id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, MRVReportDetailsResponse{
		MRVReportDetails: details,
		BlobText:         string(details.Blob),
	})
}

func (h *HTTPHandler) RemoveMRVReport(ctx *gin.Context) {
	id, ok := h.idParam(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.RemoveMRVReport(ctx, h.session.Contract(), id)
	h.respondTx(ctx, "removeMRVReport", receipt, err)
}

func (h *HTTPHandler) AssignVVBToMRV(ctx *gin.Context) {
	id, ok := h.idParam(ctx)
	if !ok {
		return
	}
	vvb, ok := h.bindVVB(ctx)
	if !ok {
		return
	}
	receipt, err := h.service.AssignVVBToMRV(ctx, h.session.Contract(), id, vvb)
	h.respondTx(ctx, "assignVVBToMRV", receipt, err)
}
