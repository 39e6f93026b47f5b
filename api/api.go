package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/typesense/typesense-go/typesense/api"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	insuredesk "github.com/insuredesk/insuredesk"
	"github.com/insuredesk/insuredesk/api/middleware"
	"github.com/insuredesk/insuredesk/config"
)

type Api struct {
	insuredesk *insuredesk.InsureDesk
	router     *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/leads", a.CreateLead)
	router.GET("/leads/:id", a.GetLead)
	router.GET("/leads", a.GetAllLeads)
	router.PUT("/leads/:id", a.UpdateLead)
	router.DELETE("/leads/:id", a.DeleteLead)
	router.POST("/leads/bulk-upload", a.BulkUploadLeads)

	router.POST("/reminders", a.CreateReminder)
	router.GET("/reminders/:id", a.GetReminder)
	router.GET("/reminders", a.GetAllReminders)
	router.PUT("/reminders/:id", a.UpdateReminder)
	router.DELETE("/reminders/:id", a.DeleteReminder)

	router.POST("/reminders/schedule", a.ScheduleReminderCall)
	router.POST("/reminders/call", a.PlaceReminderCall)

	router.POST("/search/:collection", a.Search)
	return a.router
}

func NewAPI(service *insuredesk.InsureDesk) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(otelgin.Middleware(conf.ProjectName))
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	r.POST("/webhook", func(c *gin.Context) {
		var payload map[string]interface{}
		err := c.Bind(&payload)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(payload)
		c.JSON(200, "webhook received")
	})

	return &Api{insuredesk: service, router: r}
}

func (a Api) Search(c *gin.Context) {
	collection, passed := c.Params.Get("collection")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "collection is required. pass id in the route /:collection"})
		return
	}

	var query api.SearchCollectionParams
	err := c.BindJSON(&query)
	if err != nil {
		return
	}

	resp, err := a.insuredesk.Search(c.Request.Context(), collection, &query)

	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
