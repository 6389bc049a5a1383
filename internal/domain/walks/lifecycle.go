package walks

import "fmt"

// Máquina de estados de un paseo:
//
//	open --(owner acepta una postulación pending)--> accepted
//	accepted --(el walker aceptado lo completa)--> completed (terminal)
//
// Las funciones de este archivo son puras: reciben el estado ya bloqueado
// dentro de la transacción y deciden qué escribir.

// DeriveRequestStatus calcula el estado del paseo a partir de sus postulaciones.
func DeriveRequestStatus(apps []WalkApplication) RequestStatus {
	status := RequestOpen
	for _, a := range apps {
		switch a.Status {
		case ApplicationCompleted:
			return RequestCompleted
		case ApplicationAccepted:
			status = RequestAccepted
		}
	}
	return status
}

// CheckConsistency valida los invariantes de un paseo y sus postulaciones.
func CheckConsistency(req WalkRequest, apps []WalkApplication) error {
	holders := 0
	for _, a := range apps {
		if a.RequestID != req.ID {
			return fmt.Errorf("%w: application %s belongs to request %s", ErrState, a.ID, a.RequestID)
		}
		if a.Status.holdsWalk() {
			holders++
		}
	}
	if holders > 1 {
		return fmt.Errorf("%w: request %s has %d assigned walkers", ErrState, req.ID, holders)
	}
	if derived := DeriveRequestStatus(apps); derived != req.Status {
		return fmt.Errorf("%w: request %s is %s but applications imply %s", ErrState, req.ID, req.Status, derived)
	}
	return nil
}

type acceptPlan struct {
	accepted WalkApplication
	rejected []WalkApplication // hermanas que pasan a rejected
}

func planAccept(req WalkRequest, apps []WalkApplication, applicationID string) (acceptPlan, error) {
	if req.Status != RequestOpen {
		return acceptPlan{}, fmt.Errorf("%w: walk request is %s, not open", ErrState, req.Status)
	}

	var (
		plan  acceptPlan
		found bool
	)
	for _, a := range apps {
		if a.ID == applicationID {
			plan.accepted = a
			found = true
			continue
		}
		if a.Status.holdsWalk() {
			return acceptPlan{}, fmt.Errorf("%w: walk request already has an assigned walker", ErrState)
		}
		if a.Status != ApplicationRejected {
			plan.rejected = append(plan.rejected, a)
		}
	}
	if !found {
		return acceptPlan{}, fmt.Errorf("%w: application does not belong to this walk request", ErrState)
	}
	if plan.accepted.Status != ApplicationPending {
		return acceptPlan{}, fmt.Errorf("%w: application is %s, not pending", ErrState, plan.accepted.Status)
	}
	return plan, nil
}

// planComplete devuelve la postulación aceptada si walkerID puede completar el paseo.
func planComplete(req WalkRequest, apps []WalkApplication, walkerID string) (WalkApplication, error) {
	if req.Status != RequestAccepted {
		return WalkApplication{}, fmt.Errorf("%w: walk request is %s, not accepted", ErrState, req.Status)
	}
	for _, a := range apps {
		if a.Status != ApplicationAccepted {
			continue
		}
		if a.WalkerID != walkerID {
			return WalkApplication{}, fmt.Errorf("%w: only the accepted walker can complete this walk", ErrAuth)
		}
		return a, nil
	}
	return WalkApplication{}, fmt.Errorf("%w: accepted walk request has no accepted application", ErrState)
}

// completedApplication busca la postulación que completó el paseo.
func completedApplication(apps []WalkApplication) (WalkApplication, bool) {
	for _, a := range apps {
		if a.Status == ApplicationCompleted {
			return a, true
		}
	}
	return WalkApplication{}, false
}

// withStatus aplica en memoria los cambios planeados, para verificar
// consistencia antes de commitear.
func withStatus(apps []WalkApplication, changes map[string]ApplicationStatus) []WalkApplication {
	out := make([]WalkApplication, len(apps))
	for i, a := range apps {
		if st, ok := changes[a.ID]; ok {
			a.Status = st
		}
		out[i] = a
	}
	return out
}
