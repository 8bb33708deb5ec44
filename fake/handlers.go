package fake

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/rodriigosc/campaign-watch/models"
)

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func newID(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

// --- auth ---

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	errs := map[string][]string{}
	if req.Email == "" {
		errs["Email"] = []string{"The Email field is required."}
	}
	if req.Password == "" {
		errs["Password"] = []string{"The Password field is required."}
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	s.mu.Lock()
	u, ok := s.data.userByEmail(req.Email)
	s.mu.Unlock()
	if !ok || u.password != req.Password || !u.IsActive {
		writeError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	token, err := s.issueToken(u.User)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	user := u.User
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: &user})
}

// --- settings ---

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.data.settingsFor(subject(r))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	section := mux.Vars(r)["section"]
	sub := subject(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.data.settingsFor(sub)

	switch section {
	case "profile":
		var p models.ProfileSettings
		if err := decodeBody(r, &p); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if p.Name == "" || p.Email == "" {
			writeValidation(w, map[string][]string{"Profile": {"Name and Email are required."}})
			return
		}
		st.Profile = p
	case "system", "general":
		var m map[string]any
		if err := decodeBody(r, &m); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if section == "system" {
			st.System = m
		} else {
			st.General = m
		}
	default:
		writeError(w, http.StatusNotFound, "Unknown settings section")
		return
	}

	s.data.settings[sub] = st
	w.WriteHeader(http.StatusNoContent)
}

// --- clients ---

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	clients := append([]models.Client(nil), s.data.clients...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(clients))
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.data.clientIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Client not found")
		return
	}
	writeJSON(w, http.StatusOK, s.data.clients[i])
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var c models.Client
	if err := decodeBody(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(c.Name) == "" {
		writeValidation(w, map[string][]string{"Name": {"The Name field is required."}})
		return
	}
	c.ID = newID("c")
	now := s.now().UTC()
	c.CreatedAt = &now

	s.mu.Lock()
	s.data.clients = append(s.data.clients, c)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	var c models.Client
	if err := decodeBody(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.data.clientIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Client not found")
		return
	}
	c.ID = s.data.clients[i].ID
	c.CreatedAt = s.data.clients[i].CreatedAt
	s.data.clients[i] = c
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.data.clientIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Client not found")
		return
	}
	s.data.clients = append(s.data.clients[:i], s.data.clients[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

// --- campaigns and executions ---

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	var out []models.Campaign
	for _, c := range s.data.campaigns {
		if name := q.Get("clientName"); name != "" && !strings.EqualFold(c.ClientName, name) {
			continue
		}
		if status := q.Get("monitoringStatus"); status != "" && !strings.EqualFold(c.MonitoringStatus, status) {
			continue
		}
		if he := q.Get("hasErrors"); he != "" {
			want, err := strconv.ParseBool(he)
			if err == nil && c.HasMonitoringErrors != want {
				continue
			}
		}
		out = append(out, c)
	}
	s.mu.Unlock()

	page, size := queryInt(r, "pagina", 0), queryInt(r, "tamanhoPagina", 0)
	if page > 0 && size > 0 {
		start := (page - 1) * size
		switch {
		case start >= len(out):
			out = nil
		case start+size < len(out):
			out = out[start : start+size]
		default:
			out = out[start:]
		}
	}
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (s *Server) handleDelayedCampaigns(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("clientName")

	s.mu.Lock()
	var out []models.Campaign
	for _, c := range s.data.campaigns {
		if !c.IsActive || c.NextExecutionDate == nil || !c.NextExecutionDate.Before(SeedTime) {
			continue
		}
		if name != "" && !strings.EqualFold(c.ClientName, name) {
			continue
		}
		out = append(out, c)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	c, ok := s.data.campaign(mux.Vars(r)["id"])
	s.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Campaign not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCampaignByOriginalID(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.data.campaigns {
		if c.ClientName == vars["client"] && c.IDCampanha == vars["campaignId"] {
			writeJSON(w, http.StatusOK, c)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Campaign not found")
}

func (s *Server) campaignExecutions(id string) []models.Execution {
	var out []models.Execution
	for _, e := range s.data.executions {
		if e.CampaignID == id {
			out = append(out, e)
		}
	}
	return out
}

func (s *Server) handleCampaignMetrics(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.campaign(id); !ok {
		writeError(w, http.StatusNotFound, "Campaign not found")
		return
	}

	m := models.CampaignMetrics{}
	var totalSecs float64
	var finished int
	for _, e := range s.campaignExecutions(id) {
		m.TotalExecutions++
		if e.Status == "Error" {
			m.FailedExecutions++
		} else {
			m.SuccessfulExecutions++
		}
		if e.StartDate != nil && e.EndDate != nil {
			totalSecs += e.EndDate.Sub(*e.StartDate).Seconds()
			finished++
		}
	}
	if m.TotalExecutions > 0 {
		m.SuccessRate = float64(m.SuccessfulExecutions) / float64(m.TotalExecutions) * 100
	}
	if finished > 0 {
		m.AverageDurationSecs = totalSecs / float64(finished)
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCampaignDiagnostic(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.data.campaign(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Campaign not found")
		return
	}

	d := models.CampaignDiagnostic{CampaignID: id, OverallHealth: c.HealthStatus, MainIssues: []string{}}
	for _, is := range s.data.issues {
		if is.CampaignID == id {
			d.Issues = append(d.Issues, is)
			d.MainIssues = append(d.MainIssues, is.Description)
		}
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleCampaignExecutions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := s.campaignExecutions(mux.Vars(r)["id"])
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (s *Server) handleGetExecution(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.data.executions {
		if e.ExecutionID == id || e.ID == id {
			writeJSON(w, http.StatusOK, e)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Execution not found")
}

func (s *Server) handleExecutionsWithErrors(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("clientName")

	s.mu.Lock()
	var out []models.Execution
	for _, e := range s.data.executions {
		if !e.HasMonitoringErrors {
			continue
		}
		if name != "" && !strings.EqualFold(e.ClientName, name) {
			continue
		}
		out = append(out, e)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(out))
}

// --- alerts ---

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("clientId")

	s.mu.Lock()
	var out []models.AlertConfiguration
	for _, a := range s.data.alerts {
		if scope == "" || inScope(a.ClientID, scope) {
			out = append(out, a)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (s *Server) handleAlertHistory(w http.ResponseWriter, r *http.Request) {
	scope := r.URL.Query().Get("clientId")

	s.mu.Lock()
	var out []models.AlertHistory
	for _, h := range s.data.history {
		if scope == "" || inScope(h.ClientID, scope) {
			out = append(out, h)
		}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, nonNil(out))
}

func validateAlert(a models.AlertConfiguration) map[string][]string {
	errs := map[string][]string{}
	if a.Name == "" {
		errs["Name"] = []string{"The Name field is required."}
	}
	if a.Type != "email" && a.Type != "webhook" {
		errs["Type"] = []string{"Type must be email or webhook."}
	}
	if a.Recipient == "" {
		errs["Recipient"] = []string{"The Recipient field is required."}
	}
	return errs
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var a models.AlertConfiguration
	if err := decodeBody(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := validateAlert(a); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}
	a.ID = newID("a")
	now := s.now().UTC()
	a.CreatedAt = &now

	s.mu.Lock()
	s.data.alerts = append(s.data.alerts, a)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) handleUpdateAlert(w http.ResponseWriter, r *http.Request) {
	var a models.AlertConfiguration
	if err := decodeBody(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := validateAlert(a); len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.data.alertIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Alert not found")
		return
	}
	// id, owner and creation time never change
	prev := s.data.alerts[i]
	a.ID, a.ClientID, a.CreatedAt = prev.ID, prev.ClientID, prev.CreatedAt
	s.data.alerts[i] = a
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.data.alertIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "Alert not found")
		return
	}
	s.data.alerts = append(s.data.alerts[:i], s.data.alerts[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

// --- dashboard ---

func (s *Server) filteredCampaigns(clientName string) []models.Campaign {
	var out []models.Campaign
	for _, c := range s.data.campaigns {
		if clientName == "" || strings.EqualFold(c.ClientName, clientName) {
			out = append(out, c)
		}
	}
	return out
}

func statusCounts(campaigns []models.Campaign) []models.StatusCount {
	counts := map[string]int{}
	for _, c := range campaigns {
		counts[c.MonitoringStatus]++
	}
	out := make([]models.StatusCount, 0, len(counts))
	for status, n := range counts {
		out = append(out, models.StatusCount{Status: status, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

func healthCounts(campaigns []models.Campaign) []models.HealthCount {
	counts := map[string]int{}
	for _, c := range campaigns {
		counts[c.HealthStatus]++
	}
	out := make([]models.HealthCount, 0, len(counts))
	for level, n := range counts {
		out = append(out, models.HealthCount{HealthLevel: level, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].HealthLevel < out[j].HealthLevel })
	return out
}

func upcoming(campaigns []models.Campaign, window time.Duration) []models.UpcomingExecution {
	out := []models.UpcomingExecution{}
	end := SeedTime.Add(window)
	for _, c := range campaigns {
		next := c.NextExecutionDate
		if !c.IsActive || next == nil || next.Before(SeedTime) || next.After(end) {
			continue
		}
		out = append(out, models.UpcomingExecution{
			CampaignID:   c.ID,
			CampaignName: c.Name,
			CampaignType: c.CampaignType,
			ClientName:   c.ClientName,
			ScheduledFor: next,
		})
	}
	return out
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("clientName")

	s.mu.Lock()
	defer s.mu.Unlock()
	campaigns := s.filteredCampaigns(name)

	summary := models.DashboardSummary{TotalCampaigns: len(campaigns)}
	healthy := 0
	for _, c := range campaigns {
		if c.IsActive {
			summary.ActiveCampaigns++
		}
		if c.HasMonitoringErrors {
			summary.CampaignsWithIssues++
		}
		if c.HealthStatus == "Healthy" {
			healthy++
		}
	}
	dayStart := SeedTime.Add(-24 * time.Hour)
	for _, e := range s.data.executions {
		if e.StartDate == nil || e.StartDate.Before(dayStart) {
			continue
		}
		if name != "" && !strings.EqualFold(e.ClientName, name) {
			continue
		}
		summary.TotalExecutionsToday++
		if e.Status != "Error" {
			summary.SuccessfulExecutionsToday++
		}
	}
	if len(campaigns) > 0 {
		summary.OverallHealthScore = float64(healthy) / float64(len(campaigns)) * 100
	}
	switch {
	case summary.OverallHealthScore >= 80:
		summary.OverallHealth = "Healthy"
	case summary.OverallHealthScore >= 50:
		summary.OverallHealth = "Warning"
	default:
		summary.OverallHealth = "Critical"
	}

	var issues []models.Issue
	for _, is := range s.data.issues {
		if name == "" || strings.EqualFold(is.ClientName, name) {
			issues = append(issues, is)
		}
	}

	updated := SeedTime
	writeJSON(w, http.StatusOK, models.DashboardData{
		Summary:            summary,
		CampaignsByStatus:  statusCounts(campaigns),
		CampaignsByHealth:  healthCounts(campaigns),
		UpcomingExecutions: upcoming(campaigns, 24*time.Hour),
		RecentIssues:       nonNil(issues),
		LastUpdated:        &updated,
	})
}

func (s *Server) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "proximasHoras", 24)

	s.mu.Lock()
	out := upcoming(s.data.campaigns, time.Duration(hours)*time.Hour)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecentIssues(w http.ResponseWriter, r *http.Request) {
	severity := r.URL.Query().Get("severity")
	limit := queryInt(r, "limite", 0)

	s.mu.Lock()
	var out []models.Issue
	for _, is := range s.data.issues {
		if severity != "" && !strings.EqualFold(is.Severity, severity) {
			continue
		}
		out = append(out, is)
	}
	s.mu.Unlock()

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	writeJSON(w, http.StatusOK, nonNil(out))
}

func (s *Server) handleStatsByStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := statusCounts(s.filteredCampaigns(r.URL.Query().Get("clientName")))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStatsByHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := healthCounts(s.filteredCampaigns(r.URL.Query().Get("clientName")))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSuccessRate(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("clientName")

	s.mu.Lock()
	total := map[string]int{}
	ok := map[string]int{}
	for _, e := range s.data.executions {
		if name != "" && !strings.EqualFold(e.ClientName, name) {
			continue
		}
		total[e.ClientName]++
		if e.Status != "Error" {
			ok[e.ClientName]++
		}
	}
	s.mu.Unlock()

	rate := models.SuccessRate{}
	for client, n := range total {
		rate[client] = float64(ok[client]) / float64(n) * 100
	}
	writeJSON(w, http.StatusOK, rate)
}

// --- users ---

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]models.User, len(s.data.users))
	for i, u := range s.data.users {
		out[i] = u.User
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.data.userIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, s.data.users[i].User)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	errs := map[string][]string{}
	if in.Name == "" {
		errs["Name"] = []string{"The Name field is required."}
	}
	if in.Email == "" {
		errs["Email"] = []string{"The Email field is required."}
	}
	if len(in.Password) < 6 {
		errs["Password"] = []string{"Password must be at least 6 characters."}
	}
	if len(errs) > 0 {
		writeValidation(w, errs)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.data.userByEmail(in.Email); exists {
		writeError(w, http.StatusConflict, "Email already registered")
		return
	}

	role := in.Role
	if role == "" {
		role = "Viewer"
	}
	now := s.now().UTC()
	u := models.User{
		ID:        newID("u"),
		Name:      in.Name,
		Email:     in.Email,
		Role:      role,
		Phone:     in.Phone,
		IsActive:  in.IsActive == nil || *in.IsActive,
		CreatedAt: &now,
	}
	s.data.users = append(s.data.users, userRecord{User: u, password: in.Password})
	writeJSON(w, http.StatusCreated, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.data.userIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	u := &s.data.users[i]
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Role != "" {
		u.Role = in.Role
	}
	if in.Phone != "" {
		u.Phone = in.Phone
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.Password != "" {
		u.password = in.Password
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.data.userIndex(mux.Vars(r)["id"])
	if i < 0 {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	s.data.users = append(s.data.users[:i], s.data.users[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
