package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/lshigami/Wombats/config"
	"github.com/lshigami/Wombats/internal/directory"
	"github.com/lshigami/Wombats/internal/model"
	"github.com/lshigami/Wombats/internal/repository"
	"gorm.io/gorm"
)

func testConfig() *config.Config {
	return &config.Config{
		Metrics:   config.Metrics{CacheTTLMinutes: 30, StorageAggregationThreshold: 2000},
		Scheduler: config.Scheduler{ReminderLeadDays: 3},
	}
}

// mockFormRepo keeps forms in memory; questions supplied at create time travel
// with the form record the way the preloaded queries return them.
type mockFormRepo struct {
	forms          map[uint]*model.Form
	instanceCounts map[uint]int64
	nextFormID     uint
	nextQuestionID uint
}

func newMockFormRepo() *mockFormRepo {
	return &mockFormRepo{
		forms:          make(map[uint]*model.Form),
		instanceCounts: make(map[uint]int64),
		nextFormID:     1,
		nextQuestionID: 1,
	}
}

func (m *mockFormRepo) Create(form *model.Form) error {
	form.ID = m.nextFormID
	m.nextFormID++
	for i := range form.Questions {
		form.Questions[i].ID = m.nextQuestionID
		form.Questions[i].FormID = form.ID
		m.nextQuestionID++
	}
	stored := *form
	m.forms[form.ID] = &stored
	return nil
}

func (m *mockFormRepo) FindByID(id uint) (*model.Form, error) {
	f, ok := m.forms[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *f
	return &out, nil
}

func (m *mockFormRepo) FindByIDWithQuestions(id uint) (*model.Form, error) {
	f, err := m.FindByID(id)
	if err != nil {
		return nil, err
	}
	sort.Slice(f.Questions, func(i, j int) bool { return f.Questions[i].Order < f.Questions[j].Order })
	return f, nil
}

func (m *mockFormRepo) FindAll() ([]model.Form, error) {
	var out []model.Form
	for _, f := range m.forms {
		out = append(out, *f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockFormRepo) FindAllActive() ([]model.Form, error) {
	var out []model.Form
	for _, f := range m.forms {
		if f.IsActive {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockFormRepo) Update(form *model.Form) error {
	stored := *form
	m.forms[form.ID] = &stored
	return nil
}

func (m *mockFormRepo) Delete(id uint) error {
	delete(m.forms, id)
	return nil
}

func (m *mockFormRepo) CountInstances(formID uint) (int64, error) {
	return m.instanceCounts[formID], nil
}

type mockQuestionRepo struct {
	questions map[uint]*model.Question
	nextID    uint
}

func newMockQuestionRepo() *mockQuestionRepo {
	return &mockQuestionRepo{questions: make(map[uint]*model.Question), nextID: 1}
}

func (m *mockQuestionRepo) seed(qs ...model.Question) {
	for _, q := range qs {
		if q.ID == 0 {
			q.ID = m.nextID
		}
		if q.ID >= m.nextID {
			m.nextID = q.ID + 1
		}
		stored := q
		m.questions[q.ID] = &stored
	}
}

func (m *mockQuestionRepo) Create(question *model.Question) error {
	question.ID = m.nextID
	m.nextID++
	stored := *question
	m.questions[question.ID] = &stored
	return nil
}

func (m *mockQuestionRepo) FindByID(id uint) (*model.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *q
	return &out, nil
}

func (m *mockQuestionRepo) FindByFormID(formID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range m.questions {
		if q.FormID == formID {
			out = append(out, *q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (m *mockQuestionRepo) Update(question *model.Question) error {
	stored := *question
	m.questions[question.ID] = &stored
	return nil
}

func (m *mockQuestionRepo) Delete(id uint) error {
	delete(m.questions, id)
	return nil
}

func (m *mockQuestionRepo) CountByFormID(formID uint) (int64, error) {
	var count int64
	for _, q := range m.questions {
		if q.FormID == formID {
			count++
		}
	}
	return count, nil
}

func (m *mockQuestionRepo) RewriteOrders(questions []model.Question) error {
	for i := range questions {
		q, ok := m.questions[questions[i].ID]
		if !ok {
			return fmt.Errorf("question %d not found", questions[i].ID)
		}
		q.Order = i
	}
	return nil
}

func (m *mockQuestionRepo) ReplaceChoices(questionID uint, choices []model.Choice) error {
	q, ok := m.questions[questionID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	q.Choices = choices
	return nil
}

type instanceKey struct {
	formID, evaluatorID, evaluateeID uint
	periodStart, periodEnd           time.Time
}

// mockInstanceRepo covers both the lifecycle methods and, via override funcs,
// the aggregation queries the metrics service issues.
type mockInstanceRepo struct {
	instances map[uint]*model.EvaluationInstance
	byKey     map[instanceKey]uint
	nextID    uint

	countAnswersCalls         int
	CountAnswersFunc          func(scope repository.MetricsScope, from, to time.Time) (int64, error)
	FindAnswerRowsFunc        func(scope repository.MetricsScope, from, to time.Time) ([]repository.AnswerRow, error)
	AggregateAnswersFunc      func(scope repository.MetricsScope, from, to time.Time) ([]repository.BucketAggregate, error)
	AggregateDistributionFunc func(scope repository.MetricsScope, from, to time.Time, questionType model.QuestionType) ([]repository.DistributionRow, error)
}

func newMockInstanceRepo() *mockInstanceRepo {
	return &mockInstanceRepo{
		instances: make(map[uint]*model.EvaluationInstance),
		byKey:     make(map[instanceKey]uint),
		nextID:    1,
	}
}

func keyOf(inst *model.EvaluationInstance) instanceKey {
	return instanceKey{
		formID:      inst.FormID,
		evaluatorID: inst.EvaluatorID,
		evaluateeID: inst.EvaluateeID,
		periodStart: inst.PeriodStart,
		periodEnd:   inst.PeriodEnd,
	}
}

func (m *mockInstanceRepo) seed(inst model.EvaluationInstance) *model.EvaluationInstance {
	if inst.ID == 0 {
		inst.ID = m.nextID
	}
	if inst.ID >= m.nextID {
		m.nextID = inst.ID + 1
	}
	stored := inst
	m.instances[inst.ID] = &stored
	m.byKey[keyOf(&stored)] = inst.ID
	return &stored
}

func (m *mockInstanceRepo) GetOrCreate(instance *model.EvaluationInstance, scaffold []model.Answer) (bool, error) {
	if id, ok := m.byKey[keyOf(instance)]; ok {
		*instance = *m.instances[id]
		return false, nil
	}
	instance.ID = m.nextID
	m.nextID++
	instance.Answers = scaffold
	stored := *instance
	m.instances[instance.ID] = &stored
	m.byKey[keyOf(&stored)] = instance.ID
	return true, nil
}

func (m *mockInstanceRepo) FindByKey(formID, evaluatorID, evaluateeID uint, periodStart, periodEnd time.Time) (*model.EvaluationInstance, error) {
	k := instanceKey{formID, evaluatorID, evaluateeID, periodStart, periodEnd}
	id, ok := m.byKey[k]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *m.instances[id]
	return &out, nil
}

func (m *mockInstanceRepo) FindByID(id uint) (*model.EvaluationInstance, error) {
	inst, ok := m.instances[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *inst
	return &out, nil
}

func (m *mockInstanceRepo) FindByIDWithDetails(id uint) (*model.EvaluationInstance, error) {
	return m.FindByID(id)
}

func (m *mockInstanceRepo) FindPendingByEvaluator(evaluatorID uint) ([]model.EvaluationInstance, error) {
	var out []model.EvaluationInstance
	for _, inst := range m.instances {
		if inst.EvaluatorID == evaluatorID && inst.Status == model.InstancePending {
			out = append(out, *inst)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PeriodEnd.Equal(out[j].PeriodEnd) {
			return out[i].PeriodEnd.Before(out[j].PeriodEnd)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockInstanceRepo) FindPendingInWindow(today time.Time) ([]model.EvaluationInstance, error) {
	var out []model.EvaluationInstance
	for _, inst := range m.instances {
		if inst.Status == model.InstancePending && !inst.PeriodEnd.Before(today) {
			out = append(out, *inst)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EvaluatorID != out[j].EvaluatorID {
			return out[i].EvaluatorID < out[j].EvaluatorID
		}
		if out[i].FormID != out[j].FormID {
			return out[i].FormID < out[j].FormID
		}
		return out[i].EvaluateeID < out[j].EvaluateeID
	})
	return out, nil
}

func (m *mockInstanceRepo) CountOverdue(evaluatorID uint, today time.Time) (int64, error) {
	var count int64
	for _, inst := range m.instances {
		if inst.EvaluatorID == evaluatorID && inst.Overdue(today) {
			count++
		}
	}
	return count, nil
}

func (m *mockInstanceRepo) SaveSubmission(instanceID uint, answers []model.Answer, submittedAt time.Time) error {
	inst, ok := m.instances[instanceID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for _, a := range answers {
		updated := false
		for i := range inst.Answers {
			if inst.Answers[i].QuestionID == a.QuestionID {
				inst.Answers[i].IntValue = a.IntValue
				inst.Answers[i].TextValue = a.TextValue
				inst.Answers[i].ChoiceValue = a.ChoiceValue
				updated = true
				break
			}
		}
		if !updated {
			a.InstanceID = instanceID
			inst.Answers = append(inst.Answers, a)
		}
	}
	inst.Status = model.InstanceCompleted
	at := submittedAt
	inst.SubmittedAt = &at
	return nil
}

func (m *mockInstanceRepo) UpdateLastReminded(ids []uint, at time.Time) error {
	for _, id := range ids {
		if inst, ok := m.instances[id]; ok {
			t := at
			inst.LastRemindedAt = &t
		}
	}
	return nil
}

func (m *mockInstanceRepo) CountAnswersInScope(scope repository.MetricsScope, from, to time.Time) (int64, error) {
	m.countAnswersCalls++
	if m.CountAnswersFunc != nil {
		return m.CountAnswersFunc(scope, from, to)
	}
	return 0, nil
}

func (m *mockInstanceRepo) FindAnswerRows(scope repository.MetricsScope, from, to time.Time) ([]repository.AnswerRow, error) {
	if m.FindAnswerRowsFunc != nil {
		return m.FindAnswerRowsFunc(scope, from, to)
	}
	return nil, nil
}

func (m *mockInstanceRepo) AggregateAnswers(scope repository.MetricsScope, from, to time.Time) ([]repository.BucketAggregate, error) {
	if m.AggregateAnswersFunc != nil {
		return m.AggregateAnswersFunc(scope, from, to)
	}
	return nil, nil
}

func (m *mockInstanceRepo) AggregateDistribution(scope repository.MetricsScope, from, to time.Time, questionType model.QuestionType) ([]repository.DistributionRow, error) {
	if m.AggregateDistributionFunc != nil {
		return m.AggregateDistributionFunc(scope, from, to, questionType)
	}
	return nil, nil
}

type mockDirectory struct {
	pairs     []directory.Pair
	employees map[uint]*model.Employee
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{employees: make(map[uint]*model.Employee)}
}

func (m *mockDirectory) addEmployee(e model.Employee) *model.Employee {
	stored := e
	m.employees[e.ID] = &stored
	return &stored
}

func (m *mockDirectory) EvaluationPairs() ([]directory.Pair, error) {
	return m.pairs, nil
}

func (m *mockDirectory) FindEmployee(id uint) (*model.Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *e
	return &out, nil
}

func (m *mockDirectory) IsEvaluator(id uint) (bool, error) {
	e, ok := m.employees[id]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	return e.Role.Evaluator(), nil
}

type sentMessage struct {
	recipient string
	subject   string
	body      string
}

type mockNotifier struct {
	sent    []sentMessage
	failFor map[string]error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{failFor: make(map[string]error)}
}

func (m *mockNotifier) Send(recipient, subject, body string) error {
	if err, ok := m.failFor[recipient]; ok {
		return err
	}
	m.sent = append(m.sent, sentMessage{recipient: recipient, subject: subject, body: body})
	return nil
}
