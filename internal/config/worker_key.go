package config

type WorkerKeyStruct struct {
	PersistAnswersQueue       string
	PersistInterruptionsQueue string
	PersistResultsQueue       string
}

var WorkerKey = &WorkerKeyStruct{
	PersistAnswersQueue:       "persist_answers_queue",
	PersistInterruptionsQueue: "persist_interruptions_queue",
	PersistResultsQueue:       "persist_results_queue",
}
