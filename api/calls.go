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

	"github.com/gin-gonic/gin"

	insuredesk "github.com/insuredesk/insuredesk"
	model2 "github.com/insuredesk/insuredesk/api/model"
	"github.com/insuredesk/insuredesk/internal/apierror"
)

// ScheduleReminderCall queues a reminder call to fire ahead of the due date.
func (a Api) ScheduleReminderCall(c *gin.Context) {
	var schedule model2.ScheduleReminder
	if err := c.ShouldBindJSON(&schedule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := schedule.ValidateScheduleReminder(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	processAt, err := a.insuredesk.ScheduleReminderCall(c.Request.Context(), insuredesk.CallRequest{
		LeadID:        schedule.LeadID,
		DueDate:       schedule.DueDate,
		DaysBefore:    schedule.DaysBefore,
		CustomMessage: schedule.CustomMessage,
		PreferTTS:     schedule.PreferTTS,
	})
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled", "process_at": processAt})
}

// PlaceReminderCall runs a reminder call immediately and returns its
// terminal outcome. The outcome is the response body even when the run
// ends in error, blocked, or failed.
func (a Api) PlaceReminderCall(c *gin.Context) {
	var call model2.PlaceCall
	if err := c.ShouldBindJSON(&call); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := call.ValidatePlaceCall(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	outcome := a.insuredesk.PlaceReminderCall(c.Request.Context(), insuredesk.CallRequest{
		LeadID:        call.LeadID,
		DueDate:       call.DueDate,
		CustomMessage: call.CustomMessage,
		PreferTTS:     call.PreferTTS,
	})

	c.JSON(http.StatusOK, outcome)
}
