package endpoints

import (
	"net/http"

	"github.com/verdeflow/verde-assistant-service/intents"
	"github.com/verdeflow/verde-assistant-service/utils"
)

// ServiceHandler provides a status report for the service. Public, used for
// health checks.
func ServiceHandler(w http.ResponseWriter, r *http.Request) {
	health := utils.GetHealth()

	report := map[string]interface{}{
		"version": utils.GetVersion(),
		"health":  health,
		"uptime":  utils.GetUptimeSeconds(),
		"intents": intents.GetIntentList(),
	}

	status := http.StatusOK
	if health.Status != "OK" {
		status = http.StatusServiceUnavailable
	}
	utils.WriteJSON(w, status, report)
}
