package config

type WorkerKeyStruct struct {
	PersistResultsQueue string
}

var WorkerKey = &WorkerKeyStruct{
	PersistResultsQueue: "quiz_results_queue",
}
