package signals

// Candidate paths, in priority order. The first non-empty value wins, so
// measured readings are listed ahead of observed and declared ones.
var (
	inspectionIDPaths = []string{"inspection_id", "inspection.id", "job.id"}

	voltagePaths = []string{
		"measured.voltage_v",
		"stress_test.voltage_v",
		"inspection.supply.voltage_v",
		"observed.supply.voltage_v",
		"job.supply.voltage_v",
	}
	mainSwitchPaths = []string{
		"inspection.switchboard.main_switch_a",
		"observed.switchboard.main_switch_a",
		"job.supply.main_switch_a",
	}
	phasePaths = []string{
		"inspection.supply.phase",
		"observed.supply.phase",
		"job.supply.phase",
	}
	totalCurrentPaths = []string{
		"measured.peak_current_a",
		"stress_test.total_current_a",
		"observed.peak_current_a",
	}
	phaseCurrentPaths = [3][]string{
		{"stress_test.l1_current_a", "measured.phases.l1.current_a"},
		{"stress_test.l2_current_a", "measured.phases.l2.current_a"},
		{"stress_test.l3_current_a", "measured.phases.l3.current_a"},
	}
	phaseVoltagePaths = [3][]string{
		{"stress_test.l1_voltage_v", "measured.phases.l1.voltage_v"},
		{"stress_test.l2_voltage_v", "measured.phases.l2.voltage_v"},
		{"stress_test.l3_voltage_v", "measured.phases.l3.voltage_v"},
	}

	circuitListPaths = []string{
		"stress_test.circuits",
		"measured.circuits",
		"observed.circuits",
		"job.loads.circuits",
	}
	tariffPaths = []string{
		"job.energy.tariff_c_per_kwh",
		"energy.tariff_c_per_kwh",
	}
	highDrawPaths = []string{
		"observed.unknown_high_draw",
		"job.loads.unknown_high_draw",
	}

	solarPaths   = []string{"observed.assets.solar_pv", "job.assets.solar_pv"}
	batteryPaths = []string{"observed.assets.battery", "job.assets.battery"}
	evPaths      = []string{"observed.assets.ev_charger", "job.assets.ev", "job.loads.ev_charger"}

	agePaths = []string{
		"job.property.age_band",
		"job.property.year_built",
		"inspection.property.year_built",
	}
	switchboardPaths = []string{
		"inspection.switchboard.type",
		"observed.switchboard.type",
		"job.switchboard.type",
	}
	rcdPaths = []string{
		"inspection.rcd.coverage",
		"observed.rcd.coverage",
		"job.rcd.coverage",
	}

	photosPath = "photos"
)
