package system

func InitResourceLimits() {}
