package loadtest

// Scenario names, in the order the generator emits them.
const (
	ScenarioSteady = "steady"
	ScenarioBurst  = "burst"
	ScenarioSoak   = "soak"
)

// Stage names used by the generated scenarios.
const (
	StageRampUp       = "ramp-up"
	StageHold         = "hold"
	StageHoldBaseline = "hold-baseline"
	StageSpike        = "spike"
	StageHoldBurst    = "hold-burst"
	StageRecover      = "recover"
	StageRampDown     = "ramp-down"
)

// Stage is one phase of a scenario. TargetVUs is reserved for tools that
// drive virtual users instead of request rates; the generator never sets it.
type Stage struct {
	Name            string `json:"name" yaml:"name"`
	DurationSeconds int    `json:"duration_seconds" yaml:"duration_seconds"`
	TargetRPS       *int   `json:"target_rps" yaml:"target_rps"`
	TargetVUs       *int   `json:"target_vus" yaml:"target_vus"`
}

// Scenario is a named traffic shape with its pass/fail checks.
type Scenario struct {
	Name           string   `json:"name" yaml:"name"`
	Description    string   `json:"description" yaml:"description"`
	Stages         []Stage  `json:"stages" yaml:"stages"`
	Checks         []Check  `json:"checks" yaml:"checks"`
	MetricsToWatch []string `json:"metrics_to_watch" yaml:"metrics_to_watch"`
}

// TotalDurationSeconds sums the stage durations.
func (s Scenario) TotalDurationSeconds() int {
	total := 0
	for _, st := range s.Stages {
		total += st.DurationSeconds
	}
	return total
}

// SafetyNotes are advisory texts accompanying a plan.
type SafetyNotes struct {
	TestDataHandling     string `json:"test_data_handling" yaml:"test_data_handling"`
	EnvironmentIsolation string `json:"environment_isolation" yaml:"environment_isolation"`
	CleanupSteps         string `json:"cleanup_steps" yaml:"cleanup_steps"`
}

// LoadTestPlan is the generated plan for one service.
type LoadTestPlan struct {
	Service     string       `json:"service" yaml:"service"`
	ProfilePath string       `json:"profile_path" yaml:"profile_path"`
	Scenarios   []Scenario   `json:"scenarios" yaml:"scenarios"`
	SafetyNotes *SafetyNotes `json:"safety_notes" yaml:"safety_notes"`
}

// ScenarioNames returns the scenario names in plan order.
func (p *LoadTestPlan) ScenarioNames() []string {
	names := make([]string, 0, len(p.Scenarios))
	for _, s := range p.Scenarios {
		names = append(names, s.Name)
	}
	return names
}

// Scenario returns the scenario with the given name.
func (p *LoadTestPlan) Scenario(name string) (*Scenario, bool) {
	for i := range p.Scenarios {
		if p.Scenarios[i].Name == name {
			return &p.Scenarios[i], true
		}
	}
	return nil, false
}

func rps(v int) *int {
	return &v
}
