package controller

import (
	"boca_backend/internal/model"
	"boca_backend/internal/service"
	"boca_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContestController struct {
	ContestService *service.ContestService
}

func NewContestController(contestService *service.ContestService) *ContestController {
	return &ContestController{ContestService: contestService}
}

// @Summary 比赛列表
// @Description 返回全部比赛，按编号升序
// @Tags 比赛管理
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Contest}
// @Router /contests [get]
func (c *ContestController) ListContests(ctx *gin.Context) {
	contests, err := c.ContestService.ListContests(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, contests)
}

// @Summary 获取比赛详情
// @Tags 比赛管理
// @Produce json
// @Param id path int true "比赛编号"
// @Success 200 {object} util.Response{data=model.Contest}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /contests/{id} [get]
func (c *ContestController) GetContest(ctx *gin.Context) {
	number, err := util.ParseContestNumber(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	contest, err := c.ContestService.GetContest(ctx.Request.Context(), number)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, contest)
}

// @Summary 当前激活的比赛
// @Tags 比赛管理
// @Produce json
// @Success 200 {object} util.Response{data=model.Contest}
// @Failure 404 {object} util.Response
// @Router /contests/active [get]
func (c *ContestController) ActiveContest(ctx *gin.Context) {
	contest, err := c.ContestService.ActiveContest(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, contest)
}

// @Summary 创建比赛
// @Description 编号由系统分配，lastmile 字段缺省为比赛时长
// @Tags 比赛管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param contest body service.CreateContestRequest true "比赛信息"
// @Success 201 {object} util.Response{data=model.Contest}
// @Failure 400 {object} util.Response
// @Router /contests [post]
func (c *ContestController) CreateContest(ctx *gin.Context) {
	var req service.CreateContestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	contest, err := c.ContestService.CreateContest(ctx.Request.Context(), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, contest)
}

// @Summary 更新比赛
// @Description 只修改请求中出现的字段，contestkeys 为空字符串时保持不变
// @Tags 比赛管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "比赛编号"
// @Param contest body model.ContestUpdate true "需要修改的字段"
// @Success 200 {object} util.Response{data=model.Contest}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /contests/{id} [put]
func (c *ContestController) UpdateContest(ctx *gin.Context) {
	number, err := util.ParseContestNumber(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	var upd model.ContestUpdate
	if err := ctx.ShouldBindJSON(&upd); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	contest, err := c.ContestService.UpdateContest(ctx.Request.Context(), number, upd)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, contest)
}

// @Summary 激活比赛
// @Description 同一时间只有一个比赛处于激活状态
// @Tags 比赛管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "比赛编号"
// @Success 200 {object} util.Response{data=model.Contest}
// @Failure 404 {object} util.Response
// @Router /contests/{id}/activate [put]
func (c *ContestController) ActivateContest(ctx *gin.Context) {
	number, err := util.ParseContestNumber(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	contest, err := c.ContestService.ActivateContest(ctx.Request.Context(), number)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, contest)
}

// @Summary 删除比赛
// @Tags 比赛管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "比赛编号"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /contests/{id} [delete]
func (c *ContestController) DeleteContest(ctx *gin.Context) {
	number, err := util.ParseContestNumber(ctx.Param("id"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	if err := c.ContestService.DeleteContest(ctx.Request.Context(), number); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"contestnumber": number})
}
