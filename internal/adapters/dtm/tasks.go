package dtm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nitwit45/automation-tm/internal/domain"
)

// Pagination shape of the task-table request. The page size and the ten
// column-descriptor groups mirror the in-browser widget; the endpoint
// rejects requests without them.
const (
	taskPageSize    = "5"
	taskListColumns = 10
)

// updatePayload is the path-embedded body of a lifecycle transition,
// bit-exact: compact JSON with these two keys, then standard base64.
type updatePayload struct {
	TaskTime     string `json:"task_time"`
	TaskTimeOnly string `json:"task_time_only"`
}

func encodeUpdatePayload(at time.Time) string {
	raw, _ := json.Marshal(updatePayload{
		TaskTime:     at.Format(domain.DateLayout),
		TaskTimeOnly: at.Format(domain.ClockLayout),
	})
	return base64.StdEncoding.EncodeToString(raw)
}

func decodeUpdatePayload(encoded string) (updatePayload, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return updatePayload{}, fmt.Errorf("decode transition payload: %w", err)
	}

	var payload updatePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return updatePayload{}, fmt.Errorf("parse transition payload: %w", err)
	}
	return payload, nil
}

// StartTask submits a new task through the remote form endpoint. Success is
// judged from the HTTP status alone; the body is not inspected on this path.
func (c *Client) StartTask(ctx context.Context, draft domain.TaskDraft) bool {
	start := c.now()
	if draft.StartAt != "" {
		parsed, err := domain.ParseStartTime(draft.StartAt)
		if err != nil {
			return false
		}
		start = parsed
	}

	// The form wants the human-readable type label next to the id. Fall back
	// to the default label when the cached catalog doesn't know the type.
	label := domain.DefaultTaskTypeLabel
	if entry, ok := domain.FindEntryByID(c.catalog.TaskTypes, draft.TaskTypeID); ok {
		label = entry.Name
	}

	form := url.Values{}
	form.Set(fieldToken, c.token)
	form.Set("taskType", draft.TaskTypeID)
	form.Set("taskTypeText", label)
	form.Set("project", draft.ProjectID)
	form.Set("task", draft.Description)
	form.Set("dtime", start.Format(domain.DateLayout))
	form.Set("dtime_only", start.Format(domain.StartClockLayout))
	if draft.CategoryID != "" {
		form.Set("category", draft.CategoryID)
	}
	if draft.ActivityID != "" {
		form.Set("activity", draft.ActivityID)
	}
	if draft.BugID != "" {
		form.Set("bugId", draft.BugID)
	}

	resp, err := c.postForm(ctx, taskSavePath, form)
	if err != nil {
		return false
	}
	drain(resp)

	return resp.StatusCode == http.StatusOK
}

func (c *Client) PauseTask(ctx context.Context, id domain.TaskID, at string) domain.TransitionResult {
	return c.updateTask(ctx, domain.StatusPause, id, at)
}

func (c *Client) ResumeTask(ctx context.Context, id domain.TaskID, at string) domain.TransitionResult {
	return c.updateTask(ctx, domain.StatusResume, id, at)
}

func (c *Client) EndTask(ctx context.Context, id domain.TaskID, at string) domain.TransitionResult {
	return c.updateTask(ctx, domain.StatusEnd, id, at)
}

// updateTask drives one lifecycle transition: the target time is rendered
// into the base64 path payload and the remote decides whether the move is
// legal. No local precondition checks; the remote success flag is the truth.
func (c *Client) updateTask(ctx context.Context, code domain.StatusCode, id domain.TaskID, at string) domain.TransitionResult {
	when := c.now()
	if at != "" {
		parsed, err := domain.ParseTransitionTime(at)
		if err != nil {
			return domain.TransitionResult{Message: err.Error()}
		}
		when = parsed
	}

	path := fmt.Sprintf("%s/%d/%s/%s", taskUpdatePath, code, id, encodeUpdatePayload(when))

	resp, err := c.get(ctx, path, nil)
	if err != nil {
		return domain.TransitionResult{Message: err.Error()}
	}
	body, err := readBody(resp)
	if err != nil {
		return domain.TransitionResult{Message: err.Error()}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.TransitionResult{Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	var verdict struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &verdict); err != nil {
		return domain.TransitionResult{Message: "unparseable transition response"}
	}

	return domain.TransitionResult{OK: verdict.Success, Message: verdict.Message}
}

type taskListSchema struct {
	Data         []domain.TaskRow `json:"data"`
	TotalHr      string           `json:"totalHr"`
	TaskStatus   string           `json:"taskStatus"`
	RecordsTotal int              `json:"recordsTotal"`
}

// MyTasks runs the paginated "my tasks for date" query the way the browser
// table does: re-GET home to normalize remote session state, refresh the
// token, then POST the DataTables-shaped form and unwrap the JSONP reply.
func (c *Client) MyTasks(ctx context.Context, date string) domain.TaskList {
	if date == "" {
		date = c.now().Format(domain.DateLayout)
	}

	if resp, err := c.get(ctx, homePath, nil); err == nil {
		drain(resp)
	}
	c.RefreshToken(ctx)

	form := url.Values{}
	form.Set("callback", jsonCallbackName)
	form.Set("draw", "1")
	form.Set("start", "0")
	form.Set("length", taskPageSize)
	form.Set("search_time", date)
	form.Set(fieldToken, c.token)
	form.Set("search[value]", "")
	form.Set("search[regex]", "false")
	for i := 0; i < taskListColumns; i++ {
		col := fmt.Sprintf("columns[%d]", i)
		form.Set(col+"[data]", strconv.Itoa(i))
		form.Set(col+"[name]", "")
		form.Set(col+"[searchable]", "true")
		form.Set(col+"[orderable]", "false")
		form.Set(col+"[search][value]", "")
		form.Set(col+"[search][regex]", "false")
	}

	target := c.baseURL + taskListPath + "?callback=" + jsonCallbackName
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.FailedTaskList(err.Error())
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Accept", "text/javascript, application/javascript, application/ecmascript, application/x-ecmascript, */*; q=0.01")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("Referer", c.baseURL+homePath)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.FailedTaskList(err.Error())
	}
	body, err := readBody(resp)
	if err != nil {
		return domain.FailedTaskList(err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return domain.FailedTaskList(fmt.Sprintf("HTTP %d", resp.StatusCode))
	}

	var raw json.RawMessage
	if err := decodeRelay(body, &raw); err != nil {
		return domain.FailedTaskList("failed to parse response")
	}
	var payload taskListSchema
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.FailedTaskList("failed to parse response")
	}

	tasks := payload.Data
	if tasks == nil {
		tasks = []domain.TaskRow{}
	}
	totalHours := payload.TotalHr
	if totalHours == "" {
		totalHours = "0:00"
	}

	return domain.TaskList{
		Success:      true,
		Tasks:        tasks,
		TotalHours:   totalHours,
		TaskStatus:   payload.TaskStatus,
		TotalRecords: payload.RecordsTotal,
		Raw:          raw,
	}
}
