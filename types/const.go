package types

import "math"

// 默认常量定义
const (
	Epsilon            = 0.001  // 比较容差
	DefaultTemperature = 300.0  // 默认温度(K)
	Gravity            = 9.81   // 重力加速度(m/s²)
	AirDensitySeaLevel = 1.225  // 海平面空气密度(kg/m³)
	ReferenceAltitude  = 8500.0 // 空气密度参考高度(m)
	KineticPercentage  = 0.8    // 动摩擦系数与静摩擦系数之比
)

// 单位换算
const (
	KWhToJoules         = 3.6e6                   // kWh -> J
	WhToJoules          = KWhToJoules / 1000      // Wh -> J
	JoulesToKWh         = 1 / KWhToJoules         // J -> kWh
	HPToW               = 745.7                   // 马力 -> W
	WToHP               = 1 / HPToW               // W -> 马力
	RPMToAngVel         = 2 * math.Pi / 60        // rpm -> rad/s
	AngVelToRPM         = 1 / RPMToAngVel         // rad/s -> rpm
	CubicMetersToLiters = 1000.0                  // m³ -> L
	LitersToCubicMeters = 1 / CubicMetersToLiters // L -> m³
)

// 默认效率
var (
	BatteryEfficiencyDefault         = 0.95 // 电池
	ElectricMotorEfficiencyDefault   = 0.93 // 电机
	GeneratorEfficiencyDefault       = 0.90 // 发电机
	InverterEfficiencyDefault        = 0.97 // 逆变器
	RectifierEfficiencyDefault       = 0.97 // 整流器
	GearEfficiencyDefault            = 0.97 // 齿轮
	GasolineEngineEfficiencyDefault  = 0.30 // 汽油机
	DieselEngineEfficiencyDefault    = 0.40 // 柴油机
	HydrogenEngineEfficiencyDefault  = 0.30 // 氢内燃机
	EthanolEngineEfficiencyDefault   = 0.27 // 乙醇发动机
	MethanolEngineEfficiencyDefault  = 0.30 // 甲醇发动机
	BiodieselEngineEfficiencyDefault = 0.35 // 生物柴油机
	MethaneEngineEfficiencyDefault   = 0.30 // 天然气发动机
	BatterySOHDefault                = 1.0  // 电池健康度
)

// ToRadians 角度转弧度
func ToRadians(deg float64) float64 { return deg * math.Pi / 180 }

// GradeToRadians 坡度百分比转弧度
func GradeToRadians(percent float64) float64 { return math.Atan(percent / 100) }
