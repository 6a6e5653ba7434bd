package radarmeta

// Variable describes a radar quantity: its naming, physical units, value
// range and the raw codes used for missing and below-threshold samples.
type Variable struct {
	// Name is the quantity code, e.g. "Z", "DBZH", "cum_pr_mm".
	Name string
	// LongName is the human-readable description.
	LongName string
	// StandardName is the netCDF-compliant standard name, when one exists.
	StandardName string
	// Units are the physical units of the decoded values.
	Units string
	// MinVal and MaxVal bound the physically meaningful value range.
	MinVal, MaxVal float64
	// Missing marks out-of-range or absent samples.
	Missing float32
	// Undetect marks samples below the detection threshold.
	Undetect float32
	// ColorTable is the filename of the rendering palette, when one is
	// associated with the quantity.
	ColorTable string
	// AccumTimeH is the accumulation span in hours, 0 for instantaneous
	// quantities.
	AccumTimeH float64
}

// variables is the static radar-variable table. It replaces both the legacy
// variable table file and the runtime subclass scan the previous
// implementation used to resolve a variable by name.
var variables = []Variable{
	{Name: "pr", LongName: "Radar precipitation flux", StandardName: "precipitation_flux", Units: "kg m-2 s-1", MinVal: 0, MaxVal: 10000, Missing: -1, Undetect: 0},
	{Name: "Z_60", LongName: "Radar reflectivity factor", Units: "dBZ", MinVal: -19.69, MaxVal: 60, Missing: -20, Undetect: -19.69, ColorTable: "RGB_Z.txt"},
	{Name: "cum_pr", LongName: "Radar Precipitation amount", StandardName: "precipitation_amount", Units: "kg m-2", MinVal: 0, MaxVal: 10000, Missing: -1, Undetect: 0},
	{Name: "ZDR", LongName: "Radar Differential Reflectivity", Units: "dB", MinVal: -6, MaxVal: 10, Missing: -16, Undetect: -16, ColorTable: "RGB_ZDR.txt"},
	{Name: "VN16", LongName: "Doppler Radar Velocity", Units: "m s-1", MinVal: -16.5, MaxVal: 16.5, Missing: -16.5, Undetect: -16.5, ColorTable: "RGB_V.txt"},
	{Name: "VN49", LongName: "Doppler Radar Velocity", Units: "m s-1", MinVal: -49.5, MaxVal: 49.5, Missing: -49.5, Undetect: -49.5, ColorTable: "RGB_V.txt"},
	{Name: "sV", LongName: "Doppler Radar Velocity Spectrum Width", Units: "m s-1", MinVal: 0, MaxVal: 10, Missing: 0, Undetect: 0, ColorTable: "RGB_SV.txt"},
	{Name: "qc", LongName: "Quality", StandardName: "quality", Units: "percent", MinVal: 0, MaxVal: 1, Missing: -1, Undetect: -1},
	{Name: "pr_mm", LongName: "Radar precipitation flux", StandardName: "precipitation_flux", Units: "mm h-1", MinVal: 0, MaxVal: 10000, Missing: -1, Undetect: 0},
	{Name: "cum_pr_mm", LongName: "Radar precipitation amount", StandardName: "precipitation_amount", Units: "mm", MinVal: 0, MaxVal: 10000, Missing: -1, Undetect: 0},
	{Name: "Z", LongName: "Radar reflectivity factor", Units: "dBZ", MinVal: -64, MaxVal: 80, Missing: -70, Undetect: -64, ColorTable: "RGB_Z.txt"},
	{Name: "DBZH", LongName: "Radar reflectivity factor", Units: "dBZ", MinVal: -64, MaxVal: 80, Missing: -70, Undetect: -64, ColorTable: "RGB_Z.txt"},
	{Name: "DBZV", LongName: "Radar reflectivity factor", Units: "dBZ", MinVal: -64, MaxVal: 80, Missing: -70, Undetect: -64, ColorTable: "RGB_Z.txt"},
	{Name: "VRAD", LongName: "Doppler Radar Velocity", Units: "m s-1", MinVal: -49.5, MaxVal: 49.5, Missing: -49.5, Undetect: -49.5, ColorTable: "RGB_V_48_17livelli.txt"},
	{Name: "WRAD", LongName: "Doppler Radar Velocity Spectrum Width", Units: "m s-1", MinVal: 0, MaxVal: 10, Missing: 0, Undetect: 0, ColorTable: "RGB_SV.txt"},
	{Name: "RHOHV", LongName: "Correlation ZH-ZV", Units: "percent", MinVal: 0, MaxVal: 1, Missing: -1, Undetect: -1, ColorTable: "RGB_RHO.txt"},
	{Name: "PHIDP", LongName: "Differential phase", Units: "degree", MinVal: -180, MaxVal: 180, Missing: -180, Undetect: -180},
	{Name: "HGHT", LongName: "Height", Units: "km", MinVal: -6, MaxVal: 20, Missing: -9999, Undetect: -9999, ColorTable: "RGB_GENERAL.txt"},
	{Name: "POH", LongName: "Probability of Hail", Units: "percent", MinVal: 0, MaxVal: 1, Missing: -1, Undetect: -1, ColorTable: "RGB_GENERAL.txt"},
	{Name: "VIL", LongName: "Vertical integrated liquid Water", Units: "km m-2", MinVal: 0, MaxVal: 150, Missing: -1, Undetect: -1, ColorTable: "RGB_VIL.txt"},
	{Name: "CLASS_CONV", LongName: "Convective-Stratiform class", Units: "", MinVal: 0, MaxVal: 1500, Missing: -1, Undetect: -1, ColorTable: "RGB_GENERAL.txt"},
	{Name: "SNR", LongName: "Signal Noise Ratio", Units: "dB", MinVal: -8, MaxVal: 8, Missing: -8, Undetect: 8, ColorTable: "RGB_GENERAL.txt"},
	{Name: "CLASS", LongName: "Hydrometeor Classification", Units: "", MinVal: 0, MaxVal: 11, Missing: 12, Undetect: 9, ColorTable: "RGB_HYDROCLASS.2.txt"},
	{Name: "VILdensity", LongName: "Hail size", Units: "cm", MinVal: 0, MaxVal: 10, Missing: -1, Undetect: -1, ColorTable: "RGB_VILdensity.txt"},
	{Name: "RATE", LongName: "Rain Rate", StandardName: "precipitation_flux", Units: "mm h-1", MinVal: 0, MaxVal: 10000, Missing: -1, Undetect: 0, ColorTable: "RGB_SRI.txt"},
	{Name: "ACRR", LongName: "Accumulated precipitation", StandardName: "precipitation_amount", Units: "mm", MinVal: 0, MaxVal: 10000, Missing: -1, Undetect: 0, ColorTable: "RGB_CUMULATE.txt"},
	{Name: "ClassID", LongName: "Fuzzy logic class", Units: "", MinVal: 0, MaxVal: 4, Missing: -1, Undetect: -1},
	{Name: "ZLR_QUA", LongName: "radar reflectivity quality", Units: "dBZ", MinVal: -19.69, MaxVal: 60, Missing: -20, Undetect: float32(80.0/255.0 - 20.0)},
}

// VariableByName looks a radar variable up by its quantity code.
func VariableByName(name string) (Variable, bool) {
	for _, v := range variables {
		if v.Name == name {
			return v, true
		}
	}
	return Variable{}, false
}
