package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lshigami/Wombats/config"
	"github.com/lshigami/Wombats/internal/cache"
	"github.com/lshigami/Wombats/internal/directory"
	"github.com/lshigami/Wombats/internal/dto"
	"github.com/lshigami/Wombats/internal/model"
	"github.com/lshigami/Wombats/internal/notify"
	"github.com/lshigami/Wombats/internal/period"
	"github.com/lshigami/Wombats/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SchedulerService runs the two daily batch passes: stamping out evaluation
// instances for the current periods, and sending reminder digests for
// outstanding ones. Both passes take an explicit "today" so one invocation
// computes every period from a single reference, and both support dry-run.
type SchedulerService interface {
	RunGeneration(today time.Time, dryRun bool) (*dto.GenerationReportDTO, error)
	RunReminders(today time.Time, dryRun bool) (*dto.ReminderReportDTO, error)
}

type schedulerService struct {
	formRepo     repository.FormRepository
	instanceRepo repository.InstanceRepository
	dir          directory.Directory
	notifier     notify.Notifier
	bus          *cache.Bus
	leadDays     int
}

func NewSchedulerService(
	formRepo repository.FormRepository,
	instanceRepo repository.InstanceRepository,
	dir directory.Directory,
	notifier notify.Notifier,
	bus *cache.Bus,
	cfg *config.Config,
) SchedulerService {
	return &schedulerService{
		formRepo:     formRepo,
		instanceRepo: instanceRepo,
		dir:          dir,
		notifier:     notifier,
		bus:          bus,
		leadDays:     cfg.Scheduler.ReminderLeadDays,
	}
}

// RunGeneration get-or-creates one instance per (evaluator, evaluatee, active
// form, period); instance creation order across pairs carries no ordering
// guarantee since every pair's key is independent. Pairs without a usable
// department or active form are counted, never errored.
func (s *schedulerService) RunGeneration(today time.Time, dryRun bool) (*dto.GenerationReportDTO, error) {
	report := &dto.GenerationReportDTO{DryRun: dryRun}

	pairs, err := s.dir.EvaluationPairs()
	if err != nil {
		return report, fmt.Errorf("error reading org hierarchy: %w", err)
	}
	activeForms, err := s.formRepo.FindAllActive()
	if err != nil {
		return report, fmt.Errorf("error reading active forms: %w", err)
	}

	due := make([]model.Form, 0, len(activeForms))
	for _, f := range activeForms {
		if period.GenerationDue(f.Type, today) {
			due = append(due, f)
		}
	}
	log.Info().Time("today", today).Bool("dryRun", dryRun).Int("pairs", len(pairs)).Int("dueForms", len(due)).Msg("Generation pass starting")

	createdAny := false
	for _, pair := range pairs {
		candidates := s.formsForPair(due, pair)
		if candidates == nil {
			if pair.Evaluatee.DepartmentID == nil && pair.RolePair == model.RolePairEmployeeReview {
				report.SkippedNoDepartment++
			} else {
				report.SkippedNoActiveForm++
			}
			continue
		}
		for _, f := range candidates {
			p := period.For(f.Type, today)
			if dryRun {
				_, err := s.instanceRepo.FindByKey(f.ID, pair.Evaluator.ID, pair.Evaluatee.ID, p.Start, p.End)
				if err == nil {
					report.Existing++
					continue
				}
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return report, fmt.Errorf("error checking existing instance: %w", err)
				}
				report.Created++
				continue
			}

			instance := model.EvaluationInstance{
				FormID:       f.ID,
				EvaluatorID:  pair.Evaluator.ID,
				EvaluateeID:  pair.Evaluatee.ID,
				DepartmentID: pair.Evaluatee.DepartmentID,
				RolePair:     pair.RolePair,
				PeriodStart:  p.Start,
				PeriodEnd:    p.End,
				Status:       model.InstancePending,
			}
			created, err := s.instanceRepo.GetOrCreate(&instance, scaffoldAnswers(&f))
			if err != nil {
				log.Error().Err(err).Uint("formID", f.ID).Uint("evaluatorID", pair.Evaluator.ID).Uint("evaluateeID", pair.Evaluatee.ID).Msg("Generation pass: get-or-create failed, aborting")
				return report, fmt.Errorf("error creating instance: %w", err)
			}
			if created {
				report.Created++
				createdAny = true
			} else {
				report.Existing++
			}
		}
	}

	if createdAny {
		s.bus.Publish(cache.Event{})
	}
	log.Info().Int("created", report.Created).Int("existing", report.Existing).
		Int("skippedNoDepartment", report.SkippedNoDepartment).Int("skippedNoActiveForm", report.SkippedNoActiveForm).
		Msg("Generation pass finished")
	return report, nil
}

// formsForPair selects the due forms applying to a pair: department-scoped
// forms matching the evaluatee's department, plus role-level forms (nil
// department) for the manager-review pairing.
func (s *schedulerService) formsForPair(due []model.Form, pair directory.Pair) []model.Form {
	var out []model.Form
	for _, f := range due {
		if f.DepartmentID == nil {
			if pair.RolePair == model.RolePairManagerReview {
				out = append(out, f)
			}
			continue
		}
		if pair.Evaluatee.DepartmentID != nil && *f.DepartmentID == *pair.Evaluatee.DepartmentID {
			out = append(out, f)
		}
	}
	return out
}

// scaffoldAnswers builds the empty answer rows created alongside a new
// instance, one per non-section question, so the edit screen renders without
// per-question inserts later.
func scaffoldAnswers(f *model.Form) []model.Answer {
	var answers []model.Answer
	for _, q := range f.Questions {
		if !q.Type.Answerable() {
			continue
		}
		answers = append(answers, model.Answer{QuestionID: q.ID})
	}
	return answers
}

type digestLine struct {
	department string
	formName   string
	evaluatee  string
	instanceID uint
}

// RunReminders sends exactly one digest per evaluator covering every pending
// instance inside the lead window. Delivery failures are logged and counted,
// never fatal. Instances already reminded today are skipped, so a same-day
// re-run is quiet; a later run resends.
func (s *schedulerService) RunReminders(today time.Time, dryRun bool) (*dto.ReminderReportDTO, error) {
	report := &dto.ReminderReportDTO{DryRun: dryRun}

	pending, err := s.instanceRepo.FindPendingInWindow(today)
	if err != nil {
		return report, fmt.Errorf("error reading pending instances: %w", err)
	}

	windowEnd := today.AddDate(0, 0, s.leadDays)
	byEvaluator := make(map[uint][]model.EvaluationInstance)
	var evaluatorIDs []uint
	for _, inst := range pending {
		if inst.PeriodEnd.After(windowEnd) {
			continue
		}
		if _, ok := byEvaluator[inst.EvaluatorID]; !ok {
			evaluatorIDs = append(evaluatorIDs, inst.EvaluatorID)
		}
		byEvaluator[inst.EvaluatorID] = append(byEvaluator[inst.EvaluatorID], inst)
	}
	sort.Slice(evaluatorIDs, func(i, j int) bool { return evaluatorIDs[i] < evaluatorIDs[j] })

	for _, evaluatorID := range evaluatorIDs {
		instances := byEvaluator[evaluatorID]

		fresh := instances[:0:0]
		for _, inst := range instances {
			if inst.LastRemindedAt != nil && sameDay(*inst.LastRemindedAt, today) {
				continue
			}
			fresh = append(fresh, inst)
		}
		if len(fresh) == 0 {
			report.AlreadyReminded++
			continue
		}

		evaluator, err := s.dir.FindEmployee(evaluatorID)
		if err != nil {
			log.Error().Err(err).Uint("evaluatorID", evaluatorID).Msg("Reminder pass: evaluator lookup failed, skipping digest")
			report.DeliveryFailures++
			continue
		}

		subject, body, instanceIDs, err := s.buildDigest(evaluator, fresh)
		if err != nil {
			log.Error().Err(err).Uint("evaluatorID", evaluatorID).Msg("Reminder pass: digest build failed, skipping")
			report.DeliveryFailures++
			continue
		}

		if dryRun {
			log.Info().Uint("evaluatorID", evaluatorID).Str("subject", subject).Msg("Reminder pass dry-run: would send digest")
			report.DigestsSent++
			continue
		}

		if err := s.notifier.Send(evaluator.Email, subject, body); err != nil {
			log.Error().Err(err).Str("recipient", evaluator.Email).Uint("evaluatorID", evaluatorID).Msg("Reminder pass: delivery failed")
			report.DeliveryFailures++
			continue
		}
		report.DigestsSent++
		if err := s.instanceRepo.UpdateLastReminded(instanceIDs, today); err != nil {
			log.Error().Err(err).Uint("evaluatorID", evaluatorID).Msg("Reminder pass: failed to record reminder timestamps")
		}
	}

	log.Info().Int("digests", report.DigestsSent).Int("alreadyReminded", report.AlreadyReminded).
		Int("failures", report.DeliveryFailures).Bool("dryRun", dryRun).
		Msg("Reminder pass finished")
	return report, nil
}

// buildDigest renders one evaluator's outstanding evaluatees grouped by
// department, then form, then evaluatee name, so digest output is
// reproducible.
func (s *schedulerService) buildDigest(evaluator *model.Employee, instances []model.EvaluationInstance) (string, string, []uint, error) {
	lines := make([]digestLine, 0, len(instances))
	ids := make([]uint, 0, len(instances))
	for _, inst := range instances {
		evaluatee, err := s.dir.FindEmployee(inst.EvaluateeID)
		if err != nil {
			return "", "", nil, fmt.Errorf("evaluatee %d lookup: %w", inst.EvaluateeID, err)
		}
		deptName := ""
		if evaluatee.Department != nil {
			deptName = evaluatee.Department.Name
		}
		lines = append(lines, digestLine{
			department: deptName,
			formName:   inst.Form.Name,
			evaluatee:  evaluatee.Name,
			instanceID: inst.ID,
		})
		ids = append(ids, inst.ID)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].department != lines[j].department {
			return lines[i].department < lines[j].department
		}
		if lines[i].formName != lines[j].formName {
			return lines[i].formName < lines[j].formName
		}
		return lines[i].evaluatee < lines[j].evaluatee
	})

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\nThe following evaluations are still waiting on you:\n", evaluator.Name)
	lastGroup := ""
	for _, line := range lines {
		group := line.department + " / " + line.formName
		if group != lastGroup {
			fmt.Fprintf(&b, "\n%s:\n", group)
			lastGroup = group
		}
		fmt.Fprintf(&b, "  - %s\n", line.evaluatee)
	}
	b.WriteString("\nPlease complete them before the period ends.\n")

	subject := fmt.Sprintf("Reminder: %d outstanding evaluation(s)", len(lines))
	return subject, b.String(), ids, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
