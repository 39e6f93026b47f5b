/*
Copyright 2025 InsureDesk Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	model2 "github.com/insuredesk/insuredesk/api/model"
	"github.com/insuredesk/insuredesk/internal/apierror"
)

func (a Api) CreateLead(c *gin.Context) {
	var newLead model2.CreateLead
	if err := c.ShouldBindJSON(&newLead); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	err := newLead.ValidateCreateLead()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	resp, err := a.insuredesk.CreateLead(c.Request.Context(), newLead.ToLead())
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetLead(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number. pass id in the route /:id"})
		return
	}

	resp, err := a.insuredesk.GetLead(c.Request.Context(), id)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllLeads(c *gin.Context) {
	limit, offset := pagination(c)
	resp, err := a.insuredesk.GetAllLeads(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a Api) UpdateLead(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number. pass id in the route /:id"})
		return
	}

	var update model2.UpdateLead
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := update.ValidateUpdateLead(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	lead := update.ToLead(id)
	if err := a.insuredesk.UpdateLead(c.Request.Context(), &lead); err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, lead)
}

func (a Api) DeleteLead(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number. pass id in the route /:id"})
		return
	}

	if err := a.insuredesk.DeleteLead(c.Request.Context(), id); err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "lead deleted"})
}

// BulkUploadLeads accepts a multipart CSV or JSON file of leads. Rows with
// a due date also create reminders.
func (a Api) BulkUploadLeads(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not open uploaded file"})
		return
	}
	defer file.Close()

	leads, reminders, err := a.insuredesk.ImportLeads(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{
			"error":             err.Error(),
			"leads_created":     leads,
			"reminders_created": reminders,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"leads_created":     leads,
		"reminders_created": reminders,
	})
}

func pathID(c *gin.Context) (int64, error) {
	raw, _ := c.Params.Get("id")
	return strconv.ParseInt(raw, 10, 64)
}

func pagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}
